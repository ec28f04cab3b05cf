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

// PgxAccountRepository implements portsrepo.AccountRepositoryFacade using pgx.
type PgxAccountRepository struct {
	db dbtx
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `code, name, account_type, COALESCE(parent_code, ''), currency_code, is_active, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc         domain.Account
		accountType string
	)
	if err := row.Scan(&acc.Code, &acc.Name, &accountType, &acc.ParentCode, &acc.CurrencyCode, &acc.IsActive, &acc.CreatedAt); err != nil {
		return nil, err
	}
	acc.AccountType = domain.AccountType(accountType)
	acc.CreatedAt = acc.CreatedAt.UTC()
	return &acc, nil
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	acc, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return acc, nil
}

// ListAccounts retrieves every account ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code`)
}

// ListChildren retrieves the direct children of an account.
func (r *PgxAccountRepository) ListChildren(ctx context.Context, code string) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE parent_code = $1 ORDER BY code`, code)
}

func (r *PgxAccountRepository) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
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

// InsertAccountIfAbsent inserts the account unless its code is already taken.
func (r *PgxAccountRepository) InsertAccountIfAbsent(ctx context.Context, acc domain.Account) (bool, error) {
	var parent *string
	if acc.ParentCode != "" {
		parent = &acc.ParentCode
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO accounts (code, name, account_type, parent_code, currency_code, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING`,
		acc.Code, acc.Name, string(acc.AccountType), parent, acc.CurrencyCode, acc.IsActive, acc.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert account %s: %w", acc.Code, err)
	}
	return tag.RowsAffected() == 1, nil
}
