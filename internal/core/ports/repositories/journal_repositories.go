package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal with its entries, or apperrors.ErrNotFound.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListAccountLines returns every entry posted to accountCode with its journal header,
	// ordered by journal date, journal creation time and line number.
	// A non-nil asOf excludes journals dated after it.
	ListAccountLines(ctx context.Context, accountCode string, asOf *time.Time) ([]domain.LedgerLine, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists a journal header and all of its entries.
	SaveJournal(ctx context.Context, journal domain.Journal) error

	// MarkJournalReversed flags a journal as reversed. It reports false when the journal
	// was already reversed or does not exist.
	MarkJournalReversed(ctx context.Context, journalID string) (bool, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
