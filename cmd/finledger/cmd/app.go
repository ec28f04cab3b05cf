package cmd

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/core/services"
	"github.com/SscSPs/finledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/finledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/finledger/pkg/database"
)

// openStore opens the configured ledger store with its migrations applied.
func openStore(ctx context.Context) (portsrepo.Store, error) {
	switch cfg.DBDriver {
	case database.DriverSQLite:
		logger.Debug("Opening SQLite ledger", slog.String("path", cfg.DBPath))
		return sqlite.Open(ctx, cfg.DBPath, logger)
	case database.DriverPostgres:
		if err := database.RunMigrations(database.DriverPostgres, cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pgsql.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// withServices opens the store, builds the service container and runs fn.
// The store is closed when fn returns.
func withServices(ctx context.Context, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Failed to close ledger store", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, portsrepo.NewRepositoryProvider(store))
	return fn(ctx, container)
}
