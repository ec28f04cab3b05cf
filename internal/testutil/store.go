// Package testutil builds throwaway ledger stores for tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/core/services"
	"github.com/SscSPs/finledger/internal/platform/config"
	"github.com/SscSPs/finledger/internal/repositories/database/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestActor is the actor ID tests write with.
const TestActor = "test-actor"

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteStore opens a migrated ledger in a temporary directory. It is closed on cleanup.
func NewSQLiteStore(t testing.TB) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Config returns a configuration suitable for tests with INR as base currency.
func Config() *config.Config {
	return &config.Config{
		DBDriver:         "sqlite",
		BaseCurrency:     "INR",
		BalanceTolerance: decimal.New(1, -2),
		RateLookbackDays: services.DefaultRateLookbackDays,
		CacheTTL:         time.Minute,
		SystemActorID:    TestActor,
		JWTSecret:        "test-secret",
	}
}

// NewServices opens a fresh store, installs the standard chart and returns the
// wired services together with the store.
func NewServices(t testing.TB) (*portssvc.ServiceContainer, portsrepo.Store) {
	t.Helper()
	store := NewSQLiteStore(t)
	svc := services.NewServiceContainer(Config(), portsrepo.NewRepositoryProvider(store))
	_, err := svc.Account.Setup(context.Background(), TestActor)
	require.NoError(t, err)
	return svc, store
}

// Date parses YYYY-MM-DD or fails the test.
func Date(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Dec parses a decimal or fails the test.
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
