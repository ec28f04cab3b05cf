package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/finledger/migrations"
	migrate "github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RunMigrations applies every pending "up" migration for driver.
// dsn is a file path for sqlite and a connection URL for postgres.
// A dedicated connection is used because the migrate driver closes it when done.
func RunMigrations(driver, dsn string, logger *slog.Logger) error {
	var (
		db       *sql.DB
		instance migratedb.Driver
		err      error
	)

	switch driver {
	case DriverSQLite:
		db, err = OpenSQLite(context.Background(), dsn)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database for migrations: %w", err)
		}
		instance, err = sqlite.WithInstance(db, &sqlite.Config{})
	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return fmt.Errorf("failed to open database connection for migrations: %w", err)
		}
		if err = db.Ping(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to ping database for migrations: %w", err)
		}
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("could not create %s driver instance for migrations: %w", driver, err)
	}

	source, err := iofs.New(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("failed to load %s migrations: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, instance)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("driver", driver))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("driver", driver))
	}
	return nil
}
