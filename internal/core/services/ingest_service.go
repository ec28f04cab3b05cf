package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
)

// ingestService feeds a parsed statement through the transaction service record by record.
type ingestService struct {
	BaseService
	transactions portssvc.TransactionSvc
	baseCurrency string
}

// NewIngestService creates the batch ingestion service.
func NewIngestService(transactions portssvc.TransactionSvc, baseCurrency string) portssvc.IngestSvc {
	return &ingestService{transactions: transactions, baseCurrency: baseCurrency}
}

var _ portssvc.IngestSvc = (*ingestService)(nil)

// Ingest records every record in order. A failing record is reported and skipped; it never
// aborts the batch. Only context cancellation stops it early.
func (s *ingestService) Ingest(ctx context.Context, actorID, sourceType, sourceFile string, records []domain.NormalizedRecord) (*domain.BatchReport, error) {
	report := &domain.BatchReport{Total: len(records)}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := s.transactions.Record(ctx, actorID, rec, sourceType, sourceFile)
		switch {
		case err != nil:
			report.Failed++
			report.Failures = append(report.Failures, domain.BatchFailure{
				Index:          i,
				IdempotencyKey: IdempotencyKey(rec, s.baseCurrency),
				Reason:         err.Error(),
			})
		case !result.WasNewlyRecorded:
			report.Duplicates++
		case result.JournalID == "":
			report.Skipped++
		default:
			report.Recorded++
		}
	}

	s.LogInfo(ctx, "Batch ingested",
		slog.String("source_type", sourceType),
		slog.String("source_file", sourceFile),
		slog.Int("total", report.Total),
		slog.Int("recorded", report.Recorded),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}
