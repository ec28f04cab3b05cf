package services

import (
	"context"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// AccountReaderSvc defines read operations on the chart of accounts.
type AccountReaderSvc interface {
	// Lookup resolves an account code, returning apperrors.ErrAccountNotFound when unknown.
	Lookup(ctx context.Context, code string) (*domain.Account, error)

	// Children returns the direct children of an account.
	Children(ctx context.Context, code string) ([]domain.Account, error)

	// Hierarchy returns the tree rooted at code, or the whole forest when code is empty.
	Hierarchy(ctx context.Context, code string) ([]*domain.AccountNode, error)

	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations on the chart of accounts.
type AccountWriterSvc interface {
	// Setup installs the standard chart of accounts. Re-running it inserts nothing
	// and never alters existing accounts. It returns the number of accounts inserted.
	Setup(ctx context.Context, actorID string) (int, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
