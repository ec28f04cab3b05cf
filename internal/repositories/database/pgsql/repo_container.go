package pgsql

import (
	"context"
	"errors"

	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/SscSPs/finledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// repoSet binds every repository to one dbtx.
type repoSet struct {
	accounts      *PgxAccountRepository
	journals      *PgxJournalRepository
	exchangeRates *PgxExchangeRateRepository
	idempotency   *PgxIdempotencyRepository
	audit         *PgxAuditRepository
}

func newRepoSet(db dbtx) *repoSet {
	return &repoSet{
		accounts:      &PgxAccountRepository{db: db},
		journals:      &PgxJournalRepository{db: db},
		exchangeRates: &PgxExchangeRateRepository{db: db},
		idempotency:   &PgxIdempotencyRepository{db: db},
		audit:         &PgxAuditRepository{db: db},
	}
}

func (r *repoSet) Accounts() portsrepo.AccountRepositoryFacade           { return r.accounts }
func (r *repoSet) Journals() portsrepo.JournalRepositoryFacade           { return r.journals }
func (r *repoSet) ExchangeRates() portsrepo.ExchangeRateRepositoryFacade { return r.exchangeRates }
func (r *repoSet) Idempotency() portsrepo.IdempotencyRepository          { return r.idempotency }
func (r *repoSet) Audit() portsrepo.AuditRepository                      { return r.audit }

// Store is a ledger store backed by a PostgreSQL pool.
type Store struct {
	BaseRepository
	*repoSet
	reporting *PgxReportingRepository
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore wraps a migrated pool. Close releases the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		BaseRepository: BaseRepository{Pool: pool},
		repoSet:        newRepoSet(pool),
		reporting:      &PgxReportingRepository{db: pool},
	}
}

func (s *Store) Reporting() portsrepo.ReportingRepository { return s.reporting }

// WithinTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) (err error) {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = s.Rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			if rbErr := s.Rollback(ctx, tx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(ctx, newRepoSet(tx)); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

func (s *Store) Close() error {
	database.ClosePgxPool(s.Pool)
	return nil
}
