package repositories

import (
	"context"
)

// TxRepositories exposes repositories bound to a single store transaction
// (or to the store itself when used outside one).
type TxRepositories interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	ExchangeRates() ExchangeRateRepositoryFacade
	Idempotency() IdempotencyRepository
	Audit() AuditRepository
}

// UnitOfWork runs fn inside one store transaction. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// Store is an explicitly opened ledger store: non-transactional repositories,
// a unit of work and a lifecycle.
type Store interface {
	TxRepositories
	UnitOfWork
	Reporting() ReportingRepository
	Close() error
}
