//go:build integration

package pgsql_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/SscSPs/finledger/internal/core/services"
	"github.com/SscSPs/finledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/finledger/internal/testutil"
	"github.com/SscSPs/finledger/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Run with: FINLEDGER_TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repositories/database/pgsql/
// Every table is truncated before each test, so point it at a throwaway database.
const databaseURLEnv = "FINLEDGER_TEST_DATABASE_URL"

type PostgresStoreTestSuite struct {
	suite.Suite
	store *pgsql.Store
	ctx   context.Context
}

func (s *PostgresStoreTestSuite) SetupSuite() {
	url := os.Getenv(databaseURLEnv)
	if url == "" {
		s.T().Skipf("%s not set", databaseURLEnv)
	}
	s.ctx = context.Background()
	s.Require().NoError(database.RunMigrations(database.DriverPostgres, url, testutil.DiscardLogger()))

	pool, err := database.NewPgxPool(s.ctx, url)
	s.Require().NoError(err)
	s.store = pgsql.NewStore(pool)
}

func (s *PostgresStoreTestSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *PostgresStoreTestSuite) SetupTest() {
	_, err := s.store.Pool.Exec(s.ctx,
		`TRUNCATE audit_log, idempotency_records, journal_entries, journals, exchange_rates, accounts`)
	s.Require().NoError(err)
}

func (s *PostgresStoreTestSuite) TestClaimKey() {
	rec := domain.IdempotencyRecord{
		IdempotencyKey: "SALARY:abc",
		SourceType:     "PAYSLIP",
		SourceFile:     "april.pdf",
		CreatedAt:      time.Now().UTC(),
	}

	claimed, err := s.store.Idempotency().ClaimKey(s.ctx, rec)
	s.Require().NoError(err)
	s.True(claimed)

	again, err := s.store.Idempotency().ClaimKey(s.ctx, rec)
	s.Require().NoError(err)
	s.False(again, "second claim must lose on the unique key")

	found, err := s.store.Idempotency().FindByKey(s.ctx, rec.IdempotencyKey)
	s.Require().NoError(err)
	s.Equal("PAYSLIP", found.SourceType)
	s.Empty(found.JournalID)

	_, err = s.store.Idempotency().FindByKey(s.ctx, "SALARY:missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostgresStoreTestSuite) TestClaimKeyRollsBackWithTx() {
	rec := domain.IdempotencyRecord{IdempotencyKey: "BANK:rollback", SourceType: "BANK", CreatedAt: time.Now().UTC()}

	err := s.store.WithinTx(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		claimed, err := repos.Idempotency().ClaimKey(ctx, rec)
		s.Require().NoError(err)
		s.Require().True(claimed)
		return apperrors.ErrValidation
	})
	s.Require().ErrorIs(err, apperrors.ErrValidation)

	_, err = s.store.Idempotency().FindByKey(s.ctx, rec.IdempotencyKey)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostgresStoreTestSuite) TestRecordReverseAndBalance() {
	svc := services.NewServiceContainer(testutil.Config(), portsrepo.NewRepositoryProvider(s.store))
	_, err := svc.Account.Setup(s.ctx, testutil.TestActor)
	s.Require().NoError(err)

	rec := domain.NormalizedRecord{
		AssetClass:  domain.ClassSalary,
		Activity:    domain.ActivityCredit,
		AccountRef:  "XXXX1234",
		Date:        testutil.Date(s.T(), "2024-04-30"),
		Amount:      testutil.Dec(s.T(), "150000.55"),
		TaxWithheld: testutil.Dec(s.T(), "20000.10"),
	}
	first, err := svc.Transaction.Record(s.ctx, testutil.TestActor, rec, "PAYSLIP", "april.pdf")
	s.Require().NoError(err)
	s.True(first.WasNewlyRecorded)

	second, err := svc.Transaction.Record(s.ctx, testutil.TestActor, rec, "BANK", "statement.csv")
	s.Require().NoError(err)
	s.False(second.WasNewlyRecorded)
	s.Equal(first.JournalID, second.JournalID)

	balance, err := svc.Journal.AccountBalance(s.ctx, "1101", nil)
	s.Require().NoError(err)
	s.Equal("130000.45", balance.StringFixed(2))

	journal, err := svc.Journal.GetJournal(s.ctx, first.JournalID)
	s.Require().NoError(err)
	s.True(journal.Entries[0].ExchangeRate.Equal(testutil.Dec(s.T(), "1")))

	_, err = svc.Journal.ReverseJournal(s.ctx, testutil.TestActor, first.JournalID)
	s.Require().NoError(err)
	_, err = svc.Journal.ReverseJournal(s.ctx, testutil.TestActor, first.JournalID)
	s.ErrorIs(err, apperrors.ErrConflict)

	balance, err = svc.Journal.AccountBalance(s.ctx, "1101", nil)
	s.Require().NoError(err)
	s.True(balance.IsZero())

	tb, err := svc.Reporting.TrialBalance(s.ctx, nil)
	s.Require().NoError(err)
	s.True(tb.Balanced(testutil.Config().BalanceTolerance))
}

func TestPostgresStoreTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreTestSuite))
}

func TestPostgresConcurrentClaims(t *testing.T) {
	url := os.Getenv(databaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", databaseURLEnv)
	}
	ctx := context.Background()
	require.NoError(t, database.RunMigrations(database.DriverPostgres, url, testutil.DiscardLogger()))
	pool, err := database.NewPgxPool(ctx, url)
	require.NoError(t, err)
	store := pgsql.NewStore(pool)
	t.Cleanup(func() { _ = store.Close() })

	key := "STOCK:concurrent-" + time.Now().UTC().Format(time.RFC3339Nano)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.Idempotency().ClaimKey(ctx, domain.IdempotencyRecord{
				IdempotencyKey: key, SourceType: "BROKER", CreatedAt: time.Now().UTC(),
			})
			assert.NoError(t, err)
			if claimed {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}
