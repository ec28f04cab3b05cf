package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxIdempotencyRepository implements portsrepo.IdempotencyRepository using pgx.
type PgxIdempotencyRepository struct {
	db dbtx
}

var _ portsrepo.IdempotencyRepository = (*PgxIdempotencyRepository)(nil)

// ClaimKey relies on the unique index: a concurrent claim of the same key blocks until
// the first transaction ends and then inserts nothing.
func (r *PgxIdempotencyRepository) ClaimKey(ctx context.Context, rec domain.IdempotencyRecord) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO idempotency_records (idempotency_key, source_type, journal_id, source_file, created_at)
		VALUES ($1, $2, NULL, $3, $4)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		rec.IdempotencyKey, rec.SourceType, rec.SourceFile, rec.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key %s: %w", rec.IdempotencyKey, err)
	}
	return tag.RowsAffected() == 1, nil
}

// AttachJournal links a claimed key to its journal.
func (r *PgxIdempotencyRepository) AttachJournal(ctx context.Context, key string, journalID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE idempotency_records SET journal_id = $1 WHERE idempotency_key = $2`, journalID, key)
	if err != nil {
		return fmt.Errorf("failed to attach journal %s to key %s: %w", journalID, key, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
	}
	return nil
}

// FindByKey retrieves the record for an idempotency key.
func (r *PgxIdempotencyRepository) FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	var (
		rec       domain.IdempotencyRecord
		journalID *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT idempotency_key, source_type, journal_id::text, source_file, created_at
		FROM idempotency_records WHERE idempotency_key = $1`, key).
		Scan(&rec.IdempotencyKey, &rec.SourceType, &journalID, &rec.SourceFile, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find idempotency key %s: %w", key, err)
	}
	if journalID != nil {
		rec.JournalID = *journalID
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
