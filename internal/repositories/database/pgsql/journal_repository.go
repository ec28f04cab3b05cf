package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxJournalRepository implements portsrepo.JournalRepositoryFacade using pgx.
type PgxJournalRepository struct {
	db dbtx
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournal inserts the journal header and queues its entries in one batch.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO journals (journal_id, journal_date, description, reference_type, reference_id, is_reversed, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		journal.JournalID,
		journal.JournalDate,
		journal.Description,
		journal.ReferenceType,
		journal.ReferenceID,
		journal.IsReversed,
		journal.CreatedBy,
		journal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err)
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO journal_entries (entry_id, journal_id, line_no, account_code, debit, credit, currency_code, exchange_rate, narration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, e := range journal.Entries {
		batch.Queue(entryQuery,
			e.EntryID,
			journal.JournalID,
			e.LineNo,
			e.AccountCode,
			e.Debit,
			e.Credit,
			e.CurrencyCode,
			e.ExchangeRate,
			e.Narration,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute entry batch for journal %s: %w", journal.JournalID, err)
	}
	return nil
}

// FindJournalByID retrieves a journal with its entries.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	var j domain.Journal
	err := r.db.QueryRow(ctx, `
		SELECT journal_id, journal_date, description, reference_type, reference_id, is_reversed, created_by, created_at
		FROM journals WHERE journal_id = $1`, journalID).
		Scan(&j.JournalID, &j.JournalDate, &j.Description, &j.ReferenceType, &j.ReferenceID, &j.IsReversed, &j.CreatedBy, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	j.JournalDate = domain.DateOf(j.JournalDate)
	j.CreatedAt = j.CreatedAt.UTC()

	rows, err := r.db.Query(ctx, `
		SELECT entry_id, journal_id, line_no, account_code, debit, credit, currency_code, exchange_rate, narration
		FROM journal_entries WHERE journal_id = $1 ORDER BY line_no`, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.EntryID, &e.JournalID, &e.LineNo, &e.AccountCode, &e.Debit, &e.Credit,
			&e.CurrencyCode, &e.ExchangeRate, &e.Narration); err != nil {
			return nil, fmt.Errorf("failed to scan entry row for journal %s: %w", journalID, err)
		}
		j.Entries = append(j.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows for journal %s: %w", journalID, err)
	}
	return &j, nil
}

// ListAccountLines retrieves every entry on an account in ledger order.
func (r *PgxJournalRepository) ListAccountLines(ctx context.Context, accountCode string, asOf *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT j.journal_id, j.journal_date, j.description, j.reference_type, j.is_reversed, j.created_at,
		       e.entry_id, e.line_no, e.account_code, e.debit, e.credit, e.currency_code, e.exchange_rate, e.narration
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE e.account_code = $1`
	args := []any{accountCode}
	if asOf != nil {
		query += ` AND j.journal_date <= $2`
		args = append(args, domain.DateOf(*asOf))
	}
	query += ` ORDER BY j.journal_date, j.created_at, j.journal_id, e.line_no`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines for account %s: %w", accountCode, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(&l.JournalID, &l.JournalDate, &l.Description, &l.ReferenceType, &l.IsReversed, &l.CreatedAt,
			&l.Entry.EntryID, &l.Entry.LineNo, &l.Entry.AccountCode, &l.Entry.Debit, &l.Entry.Credit,
			&l.Entry.CurrencyCode, &l.Entry.ExchangeRate, &l.Entry.Narration); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line for account %s: %w", accountCode, err)
		}
		l.JournalDate = domain.DateOf(l.JournalDate)
		l.CreatedAt = l.CreatedAt.UTC()
		l.Entry.JournalID = l.JournalID
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines for account %s: %w", accountCode, err)
	}
	return lines, nil
}

// MarkJournalReversed flips is_reversed only if it is still false.
func (r *PgxJournalRepository) MarkJournalReversed(ctx context.Context, journalID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE journals SET is_reversed = TRUE WHERE journal_id = $1 AND is_reversed = FALSE`, journalID)
	if err != nil {
		return false, fmt.Errorf("failed to mark journal %s reversed: %w", journalID, err)
	}
	return tag.RowsAffected() == 1, nil
}
