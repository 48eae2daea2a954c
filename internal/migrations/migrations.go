// Package migrations owns the order-history schema: the parts catalogue and
// the four per-order-type tables. Migration files are embedded so a deployed
// binary carries its own schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var schemaFiles embed.FS

// RunMigrations brings the database schema up to date. With autoMigrate off
// it only reports the current version, for deployments where the schema is
// managed out of band.
func RunMigrations(db *sql.DB, autoMigrate bool) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}

	if dirty {
		// An interrupted run leaves the version flagged dirty and blocks all
		// further migrations. With a single baseline migration, forcing the
		// recorded version is safe.
		slog.Warn("Interrupted migration detected, forcing recorded version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("clear dirty migration state at version %d: %w", version, err)
		}
	}

	if !autoMigrate {
		slog.Info("Auto-migration disabled", "current_version", version)
		return nil
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("Schema already up to date", "version", version)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	applied, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version after apply: %w", err)
	}
	slog.Info("Applied schema migrations", "from_version", version, "to_version", applied)
	return nil
}

// newMigrator wires the embedded SQL files and the shared connection into a
// migrate instance.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(schemaFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("wrap connection for migrations: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, "postgres", driver)
}
