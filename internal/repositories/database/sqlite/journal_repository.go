package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
)

type journalRepository struct {
	db queryer
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

// SaveJournal inserts the journal header followed by its entries.
// Callers run it inside WithinTx so that a failed entry leaves nothing behind.
func (r *journalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO journals (journal_id, journal_date, description, reference_type, reference_id, is_reversed, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		journal.JournalID,
		formatDate(journal.JournalDate),
		journal.Description,
		journal.ReferenceType,
		journal.ReferenceID,
		boolInt(journal.IsReversed),
		journal.CreatedBy,
		formatTimestamp(journal.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err)
	}

	for _, e := range journal.Entries {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO journal_entries (entry_id, journal_id, line_no, account_code, debit, credit, currency_code, exchange_rate, narration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.EntryID,
			journal.JournalID,
			e.LineNo,
			e.AccountCode,
			e.Debit.String(),
			e.Credit.String(),
			e.CurrencyCode,
			e.ExchangeRate.String(),
			e.Narration,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry %d of journal %s: %w", e.LineNo, journal.JournalID, err)
		}
	}
	return nil
}

func (r *journalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	var (
		j          domain.Journal
		date       string
		isReversed int
		createdAt  string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT journal_id, journal_date, description, reference_type, reference_id, is_reversed, created_by, created_at
		FROM journals WHERE journal_id = ?`, journalID).
		Scan(&j.JournalID, &date, &j.Description, &j.ReferenceType, &j.ReferenceID, &isReversed, &j.CreatedBy, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	if j.JournalDate, err = parseDate(date); err != nil {
		return nil, err
	}
	if j.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	j.IsReversed = isReversed == 1

	rows, err := r.db.QueryContext(ctx, `
		SELECT entry_id, journal_id, line_no, account_code, debit, credit, currency_code, exchange_rate, narration
		FROM journal_entries WHERE journal_id = ? ORDER BY line_no`, journalID)
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

func (r *journalRepository) ListAccountLines(ctx context.Context, accountCode string, asOf *time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT j.journal_id, j.journal_date, j.description, j.reference_type, j.is_reversed, j.created_at,
		       e.entry_id, e.line_no, e.account_code, e.debit, e.credit, e.currency_code, e.exchange_rate, e.narration
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE e.account_code = ?`
	args := []any{accountCode}
	if asOf != nil {
		query += ` AND j.journal_date <= ?`
		args = append(args, formatDate(*asOf))
	}
	query += ` ORDER BY j.journal_date, j.created_at, j.journal_id, e.line_no`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines for account %s: %w", accountCode, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var (
			l          domain.LedgerLine
			date       string
			isReversed int
			createdAt  string
		)
		if err := rows.Scan(&l.JournalID, &date, &l.Description, &l.ReferenceType, &isReversed, &createdAt,
			&l.Entry.EntryID, &l.Entry.LineNo, &l.Entry.AccountCode, &l.Entry.Debit, &l.Entry.Credit,
			&l.Entry.CurrencyCode, &l.Entry.ExchangeRate, &l.Entry.Narration); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line for account %s: %w", accountCode, err)
		}
		if l.JournalDate, err = parseDate(date); err != nil {
			return nil, err
		}
		if l.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		l.IsReversed = isReversed == 1
		l.Entry.JournalID = l.JournalID
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines for account %s: %w", accountCode, err)
	}
	return lines, nil
}

func (r *journalRepository) MarkJournalReversed(ctx context.Context, journalID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE journals SET is_reversed = 1 WHERE journal_id = ? AND is_reversed = 0`, journalID)
	if err != nil {
		return false, fmt.Errorf("failed to mark journal %s reversed: %w", journalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for journal %s: %w", journalID, err)
	}
	return n == 1, nil
}

