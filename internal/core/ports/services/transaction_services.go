package services

import (
	"context"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// LedgerMapper turns a normalized record into journal lines.
type LedgerMapper interface {
	// MapToJournal returns nil when the record has no registered handler or produces no lines.
	MapToJournal(ctx context.Context, rates RateConverter, rec domain.NormalizedRecord) (*domain.MappedJournal, error)
}

// TransactionSvc records normalized records exactly once.
type TransactionSvc interface {
	Record(ctx context.Context, actorID string, rec domain.NormalizedRecord, sourceType, sourceFile string) (*domain.TransactionResult, error)
}

// IngestSvc records a batch of normalized records, one unit of work per record.
type IngestSvc interface {
	Ingest(ctx context.Context, actorID, sourceType, sourceFile string, records []domain.NormalizedRecord) (*domain.BatchReport, error)
}
