package repositories

import (
	"context"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByCode returns apperrors.ErrAccountNotFound when the code does not exist.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	// ListChildren returns the direct children of code ordered by code.
	ListChildren(ctx context.Context, code string) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// InsertAccountIfAbsent inserts the account unless its code already exists.
	// It reports whether a row was inserted; existing rows are never modified.
	InsertAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
