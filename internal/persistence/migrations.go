package persistence

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigrateUp applies every pending migration for the database's dialect.
func MigrateUp(db Database, logger *zap.Logger) error {
	return withMigrator(db, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("apply migrations: %w", err)
		}
		version, _, _ := m.Version()
		logger.Info("migrations applied", zap.String("driver", db.Driver()), zap.Uint("version", version))
		return nil
	})
}

// MigrateDown reverts every applied migration.
func MigrateDown(db Database, logger *zap.Logger) error {
	return withMigrator(db, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("revert migrations: %w", err)
		}
		logger.Info("migrations reverted", zap.String("driver", db.Driver()))
		return nil
	})
}

func withMigrator(db Database, fn func(*migrate.Migrate) error) error {
	if db == nil {
		return errors.New("no database available for migrations")
	}

	source, err := iofs.New(migrationsFS, "migrations/"+db.Driver())
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, name, release, err := db.migrationTarget()
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	defer release()

	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return fn(m)
}
