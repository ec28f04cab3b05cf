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

type accountRepository struct {
	db queryer
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

const accountColumns = `code, name, account_type, COALESCE(parent_code, ''), currency_code, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		acc         domain.Account
		accountType string
		isActive    int
		createdAt   string
	)
	if err := row.Scan(&acc.Code, &acc.Name, &accountType, &acc.ParentCode, &acc.CurrencyCode, &isActive, &createdAt); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}
	acc.AccountType = domain.AccountType(accountType)
	acc.IsActive = isActive == 1
	acc.CreatedAt = ts
	return &acc, nil
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = ?`, code)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return acc, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code`)
}

func (r *accountRepository) ListChildren(ctx context.Context, code string) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE parent_code = ? ORDER BY code`, code)
}

func (r *accountRepository) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) InsertAccountIfAbsent(ctx context.Context, acc domain.Account) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (code, name, account_type, parent_code, currency_code, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO NOTHING`,
		acc.Code, acc.Name, string(acc.AccountType), nullString(acc.ParentCode),
		acc.CurrencyCode, boolInt(acc.IsActive), formatTimestamp(acc.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert account %s: %w", acc.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for account %s: %w", acc.Code, err)
	}
	return n == 1, nil
}
