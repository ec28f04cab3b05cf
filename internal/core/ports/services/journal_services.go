package services

import (
	"context"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournal retrieves a journal and its entries.
	GetJournal(ctx context.Context, journalID string) (*domain.Journal, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal validates and persists a journal in its own transaction and audits it.
	CreateJournal(ctx context.Context, actorID string, req domain.NewJournal) (*domain.Journal, error)

	// CreateJournalInTx validates and persists a journal through the caller's repositories.
	// Auditing is left to the caller.
	CreateJournalInTx(ctx context.Context, repos repositories.TxRepositories, actorID string, req domain.NewJournal) (*domain.Journal, error)

	// ReverseJournal posts the mirror image of a journal and flags the original as reversed.
	ReverseJournal(ctx context.Context, actorID string, journalID string) (*domain.Journal, error)
}

// JournalCalculatorSvc defines calculation operations related to journals
type JournalCalculatorSvc interface {
	// AccountBalance returns debit minus credit in the account's currency, as of asOf when non-nil.
	AccountBalance(ctx context.Context, accountCode string, asOf *time.Time) (decimal.Decimal, error)

	// AccountLedger returns every line posted to the account with a running balance.
	AccountLedger(ctx context.Context, accountCode string) ([]domain.LedgerRow, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalCalculatorSvc
}
