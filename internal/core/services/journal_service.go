package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance is the largest base-currency difference a journal may carry.
var DefaultBalanceTolerance = decimal.New(1, -2)

// reversalDescriptionPrefix starts the description of every reversal journal.
const reversalDescriptionPrefix = "Reversal of: "

// journalService validates, persists and reverses journals.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalReader
	uow         portsrepo.UnitOfWork
	accounts    portssvc.AccountReaderSvc
	rates       portssvc.RateConverter
	audit       portssvc.AuditWriterSvc
	tolerance   decimal.Decimal
}

// JournalServiceOption is a functional option for configuring the journal service.
type JournalServiceOption func(*journalService)

// WithBalanceTolerance sets the allowed base-currency rounding difference.
func WithBalanceTolerance(tolerance decimal.Decimal) JournalServiceOption {
	return func(s *journalService) {
		s.tolerance = tolerance
	}
}

// WithJournalClock overrides the clock used for created_at stamps.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalReader, uow portsrepo.UnitOfWork, accounts portssvc.AccountReaderSvc, rates portssvc.RateConverter, audit portssvc.AuditWriterSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		uow:         uow,
		accounts:    accounts,
		rates:       rates,
		audit:       audit,
		tolerance:   DefaultBalanceTolerance,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildJournal validates req and resolves currencies and rates. Nothing is written.
func (s *journalService) buildJournal(ctx context.Context, actorID string, req domain.NewJournal) (*domain.Journal, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: journal date is required", apperrors.ErrValidation)
	}
	if strings.EqualFold(strings.TrimSpace(req.ReferenceType), domain.ReferenceReversal) {
		return nil, fmt.Errorf("%w: reference type %s is reserved for reversals", apperrors.ErrValidation, domain.ReferenceReversal)
	}
	if len(req.Entries) < 2 {
		return nil, fmt.Errorf("%w: journal must have at least two entries, got %d", apperrors.ErrValidation, len(req.Entries))
	}

	date := domain.DateOf(req.Date)
	base := s.rates.BaseCurrency()
	journal := &domain.Journal{
		JournalID:     uuid.NewString(),
		JournalDate:   date,
		Description:   req.Description,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		CreatedBy:     actorID,
		CreatedAt:     s.Now(),
		Entries:       make([]domain.JournalEntry, 0, len(req.Entries)),
	}

	allZero := true
	for i, in := range req.Entries {
		if in.Debit.IsNegative() || in.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: entry %d on account %s has a negative amount", apperrors.ErrValidation, i+1, in.AccountCode)
		}
		if !in.Debit.IsZero() || !in.Credit.IsZero() {
			allZero = false
		}

		account, err := s.accounts.Lookup(ctx, in.AccountCode)
		if err != nil {
			return nil, err
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}

		currency := strings.ToUpper(in.CurrencyCode)
		if currency == "" {
			currency = account.CurrencyCode
		}
		if currency != account.CurrencyCode {
			return nil, fmt.Errorf("%w: entry %d currency %s does not match account %s currency %s",
				apperrors.ErrValidation, i+1, currency, account.Code, account.CurrencyCode)
		}

		rate := in.ExchangeRate
		switch {
		case currency == base && rate.IsZero():
			rate = decimal.NewFromInt(1)
		case currency == base && !rate.Equal(decimal.NewFromInt(1)):
			return nil, fmt.Errorf("%w: entry %d is in base currency but carries rate %s", apperrors.ErrValidation, i+1, rate)
		case rate.IsZero():
			rate, err = s.rates.GetRate(ctx, currency, date, base)
			if err != nil {
				return nil, err
			}
		case rate.IsNegative():
			return nil, fmt.Errorf("%w: entry %d has a negative exchange rate", apperrors.ErrValidation, i+1)
		}

		journal.Entries = append(journal.Entries, domain.JournalEntry{
			EntryID:      uuid.NewString(),
			JournalID:    journal.JournalID,
			LineNo:       i + 1,
			AccountCode:  account.Code,
			Debit:        in.Debit,
			Credit:       in.Credit,
			CurrencyCode: currency,
			ExchangeRate: rate,
			Narration:    in.Narration,
		})
	}
	if allZero {
		return nil, fmt.Errorf("%w: journal entries are all zero", apperrors.ErrValidation)
	}

	debit, credit := journal.BaseTotals()
	if err := apperrors.CheckBalanced(debit, credit, s.tolerance); err != nil {
		metrics.UnbalancedRejections.Inc()
		return nil, err
	}
	return journal, nil
}

// CreateJournal implements portssvc.JournalWriterSvc.
func (s *journalService) CreateJournal(ctx context.Context, actorID string, req domain.NewJournal) (*domain.Journal, error) {
	var created *domain.Journal
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		journal, err := s.CreateJournalInTx(ctx, repos, actorID, req)
		if err != nil {
			return err
		}
		if err := s.audit.LogChangeInTx(ctx, repos.Audit(), actorID, domain.TableJournals, journal.JournalID, domain.AuditInsert, nil, journal); err != nil {
			return err
		}
		created = journal
		return nil
	})
	if err != nil {
		s.logRejection(ctx, err, "Failed to create journal")
		return nil, err
	}

	metrics.JournalsCreated.Inc()
	s.LogInfo(ctx, "Journal created", slog.String("journal_id", created.JournalID), slog.String("actor_id", actorID))
	return created, nil
}

// CreateJournalInTx implements portssvc.JournalWriterSvc.
func (s *journalService) CreateJournalInTx(ctx context.Context, repos portsrepo.TxRepositories, actorID string, req domain.NewJournal) (*domain.Journal, error) {
	journal, err := s.buildJournal(ctx, actorID, req)
	if err != nil {
		return nil, err
	}
	if err := repos.Journals().SaveJournal(ctx, *journal); err != nil {
		return nil, err
	}
	return journal, nil
}

// ReverseJournal implements portssvc.JournalWriterSvc.
func (s *journalService) ReverseJournal(ctx context.Context, actorID string, journalID string) (*domain.Journal, error) {
	var reversal *domain.Journal
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		original, err := repos.Journals().FindJournalByID(ctx, journalID)
		if err != nil {
			return err
		}
		if original.IsReversal() {
			return fmt.Errorf("%w: journal %s is a reversal and cannot be reversed", apperrors.ErrConflict, journalID)
		}
		if original.IsReversed {
			return fmt.Errorf("%w: journal %s is already reversed", apperrors.ErrConflict, journalID)
		}

		marked, err := repos.Journals().MarkJournalReversed(ctx, journalID)
		if err != nil {
			return err
		}
		if !marked {
			return fmt.Errorf("%w: journal %s was reversed concurrently", apperrors.ErrConflict, journalID)
		}

		rev := &domain.Journal{
			JournalID:     uuid.NewString(),
			JournalDate:   original.JournalDate,
			Description:   reversalDescriptionPrefix + original.Description,
			ReferenceType: domain.ReferenceReversal,
			ReferenceID:   original.JournalID,
			CreatedBy:     actorID,
			CreatedAt:     s.Now(),
			Entries:       make([]domain.JournalEntry, len(original.Entries)),
		}
		for i, e := range original.Entries {
			rev.Entries[i] = domain.JournalEntry{
				EntryID:      uuid.NewString(),
				JournalID:    rev.JournalID,
				LineNo:       e.LineNo,
				AccountCode:  e.AccountCode,
				Debit:        e.Credit,
				Credit:       e.Debit,
				CurrencyCode: e.CurrencyCode,
				ExchangeRate: e.ExchangeRate,
				Narration:    e.Narration,
			}
		}
		if err := repos.Journals().SaveJournal(ctx, *rev); err != nil {
			return err
		}

		if err := s.audit.LogChangeInTx(ctx, repos.Audit(), actorID, domain.TableJournals, rev.JournalID, domain.AuditInsert, nil, rev); err != nil {
			return err
		}
		updated := *original
		updated.IsReversed = true
		if err := s.audit.LogChangeInTx(ctx, repos.Audit(), actorID, domain.TableJournals, original.JournalID, domain.AuditUpdate,
			journalHeader(*original), journalHeader(updated)); err != nil {
			return err
		}

		reversal = rev
		return nil
	})
	if err != nil {
		s.logRejection(ctx, err, "Failed to reverse journal", slog.String("journal_id", journalID))
		return nil, err
	}

	metrics.JournalsCreated.Inc()
	metrics.JournalsReversed.Inc()
	s.LogInfo(ctx, "Journal reversed", slog.String("journal_id", journalID), slog.String("reversal_id", reversal.JournalID))
	return reversal, nil
}

// journalHeader drops entries from audit snapshots of header-only changes.
func journalHeader(j domain.Journal) domain.Journal {
	j.Entries = nil
	return j
}

// GetJournal implements portssvc.JournalReaderSvc.
func (s *journalService) GetJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	return s.journalRepo.FindJournalByID(ctx, journalID)
}

// AccountBalance sums every line that is not part of a reversal pair.
func (s *journalService) AccountBalance(ctx context.Context, accountCode string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.accounts.Lookup(ctx, accountCode); err != nil {
		return decimal.Zero, err
	}
	lines, err := s.journalRepo.ListAccountLines(ctx, accountCode, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger lines", slog.String("account_code", accountCode))
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, l := range lines {
		if l.CountsTowardBalance() {
			balance = balance.Add(l.Entry.Net())
		}
	}
	return balance, nil
}

// AccountLedger lists every line, reversal pairs included, with a running balance.
func (s *journalService) AccountLedger(ctx context.Context, accountCode string) ([]domain.LedgerRow, error) {
	if _, err := s.accounts.Lookup(ctx, accountCode); err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.ListAccountLines(ctx, accountCode, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger lines", slog.String("account_code", accountCode))
		return nil, err
	}

	rows := make([]domain.LedgerRow, len(lines))
	running := decimal.Zero
	for i, l := range lines {
		running = running.Add(l.Entry.Net())
		rows[i] = domain.LedgerRow{LedgerLine: l, RunningBalance: running}
	}
	return rows, nil
}
