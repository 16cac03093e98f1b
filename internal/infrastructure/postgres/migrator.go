package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// Migrator applies the kv_store schema from a directory of numbered
// up/down SQL files.
type Migrator struct {
	sourceURL   string
	databaseURL string
	logger      zerolog.Logger
}

// NewMigrator creates a Migrator reading migrations from migrationsPath.
func NewMigrator(databaseURL, migrationsPath string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		sourceURL:   "file://" + migrationsPath,
		databaseURL: databaseURL,
		logger:      logger,
	}
}

// Up applies all pending migrations and returns the resulting schema version.
func (m *Migrator) Up() (uint, error) {
	var version uint
	err := m.with(func(mg *migrate.Migrate) error {
		if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		v, dirty, err := mg.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", v)
		}
		version = v
		return nil
	})
	if err != nil {
		return 0, err
	}

	m.logger.Info().Uint("version", version).Msg("database schema up to date")
	return version, nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down() error {
	err := m.with(func(mg *migrate.Migrate) error {
		if err := mg.Steps(-1); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Msg("database migration rolled back")
	return nil
}

func (m *Migrator) with(fn func(*migrate.Migrate) error) error {
	mg, err := migrate.New(m.sourceURL, m.databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer mg.Close()

	return fn(mg)
}
