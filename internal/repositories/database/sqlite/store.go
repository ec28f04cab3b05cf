// Package sqlite implements the ledger ports on a single-file SQLite database
// using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/finledger/internal/apperrors"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/SscSPs/finledger/pkg/database"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repoSet binds every repository to one queryer.
type repoSet struct {
	accounts      *accountRepository
	journals      *journalRepository
	exchangeRates *exchangeRateRepository
	idempotency   *idempotencyRepository
	audit         *auditRepository
}

func newRepoSet(q queryer) *repoSet {
	return &repoSet{
		accounts:      &accountRepository{db: q},
		journals:      &journalRepository{db: q},
		exchangeRates: &exchangeRateRepository{db: q},
		idempotency:   &idempotencyRepository{db: q},
		audit:         &auditRepository{db: q},
	}
}

func (r *repoSet) Accounts() portsrepo.AccountRepositoryFacade           { return r.accounts }
func (r *repoSet) Journals() portsrepo.JournalRepositoryFacade           { return r.journals }
func (r *repoSet) ExchangeRates() portsrepo.ExchangeRateRepositoryFacade { return r.exchangeRates }
func (r *repoSet) Idempotency() portsrepo.IdempotencyRepository          { return r.idempotency }
func (r *repoSet) Audit() portsrepo.AuditRepository                      { return r.audit }

// Store is a ledger store backed by one SQLite database.
type Store struct {
	*repoSet
	db        *sql.DB
	reporting *reportingRepository
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore wraps an already opened and migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		repoSet:   newRepoSet(db),
		db:        db,
		reporting: &reportingRepository{db: db},
	}
}

// Open opens the ledger file at path, applies pending migrations and returns the store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if err := database.RunMigrations(database.DriverSQLite, path, logger); err != nil {
		return nil, err
	}
	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Reporting() portsrepo.ReportingRepository { return s.reporting }

// WithinTx runs fn inside a BEGIN IMMEDIATE transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, apperrors.NewAppError(500, "failed to rollback transaction", rbErr))
			}
		}
	}()

	if err = fn(ctx, newRepoSet(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite store: %w", err)
	}
	return nil
}
