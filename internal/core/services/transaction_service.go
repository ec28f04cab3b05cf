package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// transactionService records normalized records at most once.
type transactionService struct {
	BaseService
	uow      portsrepo.UnitOfWork
	mapper   portssvc.LedgerMapper
	rates    portssvc.RateConverter
	journals portssvc.JournalWriterSvc
	audit    portssvc.AuditWriterSvc
	validate *validator.Validate
}

// NewTransactionService creates the idempotent recording service.
func NewTransactionService(uow portsrepo.UnitOfWork, mapper portssvc.LedgerMapper, rates portssvc.RateConverter, journals portssvc.JournalWriterSvc, audit portssvc.AuditWriterSvc) portssvc.TransactionSvc {
	return &transactionService{
		uow:      uow,
		mapper:   mapper,
		rates:    rates,
		journals: journals,
		audit:    audit,
		validate: validator.New(),
	}
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

func (s *transactionService) validateRecord(rec domain.NormalizedRecord) error {
	if err := s.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: record date is required", apperrors.ErrValidation)
	}
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"amount", rec.Amount},
		{"units", rec.Units},
		{"costBasis", rec.CostBasis},
		{"fees", rec.Fees},
		{"taxWithheld", rec.TaxWithheld},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, a.name)
		}
	}
	return nil
}

// Record claims the record's key, maps it and writes its journal in one unit of work.
// A key that is already claimed yields the existing journal with WasNewlyRecorded=false
// and no side effects. Any failure rolls the claim back so a corrected retry can succeed.
func (s *transactionService) Record(ctx context.Context, actorID string, rec domain.NormalizedRecord, sourceType, sourceFile string) (*domain.TransactionResult, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor ID is required", apperrors.ErrValidation)
	}
	if sourceType == "" {
		return nil, fmt.Errorf("%w: source type is required", apperrors.ErrValidation)
	}
	if err := s.validateRecord(rec); err != nil {
		metrics.RecordsTotal.WithLabelValues(metrics.OutcomeFailed, sourceType).Inc()
		s.LogWarn(ctx, "Rejected invalid record", slog.String("reason", err.Error()))
		return nil, err
	}

	key := IdempotencyKey(rec, s.rates.BaseCurrency())
	logger := s.GetLogger(ctx).With(slog.String("idempotency_key", key), slog.String("discriminator", rec.Discriminator().String()))
	result := &domain.TransactionResult{IdempotencyKey: key}
	outcome := metrics.OutcomeRecorded

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		claimed, err := repos.Idempotency().ClaimKey(ctx, domain.IdempotencyRecord{
			IdempotencyKey: key,
			SourceType:     sourceType,
			SourceFile:     sourceFile,
			CreatedAt:      s.Now(),
		})
		if err != nil {
			return err
		}
		if !claimed {
			existing, err := repos.Idempotency().FindByKey(ctx, key)
			if err != nil {
				return err
			}
			result.JournalID = existing.JournalID
			result.WasNewlyRecorded = false
			outcome = metrics.OutcomeDuplicate
			return nil
		}

		mapped, err := s.mapper.MapToJournal(ctx, s.rates, rec)
		if err != nil {
			return err
		}
		result.WasNewlyRecorded = true
		if mapped == nil {
			outcome = metrics.OutcomeSkipped
			return nil
		}

		journal, err := s.journals.CreateJournalInTx(ctx, repos, actorID, domain.NewJournal{
			Date:          rec.Date,
			Description:   mapped.Description,
			ReferenceType: mapped.ReferenceType,
			ReferenceID:   key,
			Entries:       mapped.Entries,
		})
		if err != nil {
			return err
		}
		if err := repos.Idempotency().AttachJournal(ctx, key, journal.JournalID); err != nil {
			return err
		}
		if err := s.audit.LogChangeInTx(ctx, repos.Audit(), actorID, domain.TableJournals, journal.JournalID, domain.AuditInsert, nil, journal); err != nil {
			return err
		}
		result.JournalID = journal.JournalID
		return nil
	})
	if err != nil {
		metrics.RecordsTotal.WithLabelValues(metrics.OutcomeFailed, sourceType).Inc()
		s.logRejection(ctx, err, "Failed to record transaction",
			slog.String("idempotency_key", key), slog.String("discriminator", rec.Discriminator().String()))
		return nil, err
	}

	metrics.RecordsTotal.WithLabelValues(outcome, sourceType).Inc()
	switch outcome {
	case metrics.OutcomeRecorded:
		metrics.JournalsCreated.Inc()
		logger.Info("Transaction recorded", slog.String("journal_id", result.JournalID))
	case metrics.OutcomeSkipped:
		logger.Info("Transaction accepted without a journal")
	case metrics.OutcomeDuplicate:
		logger.Debug("Duplicate transaction ignored", slog.String("journal_id", result.JournalID))
	}
	return result, nil
}
