package repositories

import (
	"context"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// IdempotencyRepository owns the uniqueness-constrained idempotency table.
type IdempotencyRepository interface {
	// ClaimKey inserts the record unless the key already exists. The check and the insert
	// are a single statement against the store's unique constraint. It reports whether
	// this caller claimed the key.
	ClaimKey(ctx context.Context, record domain.IdempotencyRecord) (bool, error)

	// AttachJournal links a claimed key to the journal it produced.
	AttachJournal(ctx context.Context, key string, journalID string) error

	// FindByKey returns the record for key, or apperrors.ErrNotFound.
	FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
}
