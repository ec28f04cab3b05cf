package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
)

type idempotencyRepository struct {
	db queryer
}

var _ portsrepo.IdempotencyRepository = (*idempotencyRepository)(nil)

func (r *idempotencyRepository) ClaimKey(ctx context.Context, rec domain.IdempotencyRecord) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_records (idempotency_key, source_type, journal_id, source_file, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		rec.IdempotencyKey, rec.SourceType, nullString(rec.JournalID), rec.SourceFile, formatTimestamp(rec.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim idempotency key %s: %w", rec.IdempotencyKey, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for key %s: %w", rec.IdempotencyKey, err)
	}
	return n == 1, nil
}

func (r *idempotencyRepository) AttachJournal(ctx context.Context, key string, journalID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE idempotency_records SET journal_id = ? WHERE idempotency_key = ?`, journalID, key)
	if err != nil {
		return fmt.Errorf("failed to attach journal %s to key %s: %w", journalID, key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
	}
	return nil
}

func (r *idempotencyRepository) FindByKey(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	var (
		rec       domain.IdempotencyRecord
		journalID sql.NullString
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT idempotency_key, source_type, journal_id, source_file, created_at
		FROM idempotency_records WHERE idempotency_key = ?`, key).
		Scan(&rec.IdempotencyKey, &rec.SourceType, &journalID, &rec.SourceFile, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find idempotency key %s: %w", key, err)
	}
	rec.JournalID = journalID.String
	if rec.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
