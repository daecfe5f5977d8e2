package persistence

import (
	"context"
	"fmt"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/config"
)

// Database is an open relational store the repositories run against.
type Database interface {
	// DB returns the sqlx handle. Queries should be written with ? and
	// passed through DB().Rebind.
	DB() *sqlx.DB
	Driver() string
	Ping(ctx context.Context) error
	Close()

	// migrationTarget returns the golang-migrate driver for this database
	// and a release func to call once the migrator is done.
	migrationTarget() (migratedb.Driver, string, func(), error)
}

// Open connects to the configured driver and applies migrations when enabled.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (Database, error) {
	var (
		db  Database
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = NewPostgres(ctx, cfg, logger)
	case config.DriverSQLite:
		db, err = NewSQLite(ctx, cfg.URL, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := MigrateUp(db, logger); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
