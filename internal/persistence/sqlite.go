package persistence

import (
	"context"
	"errors"
	"strings"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/config"
)

// SQLite wraps a file or in-memory SQLite database.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite opens dsn with foreign key enforcement switched on.
func NewSQLite(ctx context.Context, dsn string, logger *zap.Logger) (*SQLite, error) {
	if dsn == "" {
		return nil, errors.New("sqlite dsn not provided")
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	db, err := sqlx.Open("sqlite3", dsn+separator+"_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is a separate database, and SQLite only
	// allows one writer anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("dsn", dsn))
	return &SQLite{db: db}, nil
}

// DB returns the sqlx handle.
func (s *SQLite) DB() *sqlx.DB {
	return s.db
}

// Driver names the dialect.
func (s *SQLite) Driver() string {
	return config.DriverSQLite
}

// Ping verifies the database file is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite database not configured")
	}
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() {
	if s != nil && s.db != nil {
		_ = s.db.Close()
	}
}

func (s *SQLite) migrationTarget() (migratedb.Driver, string, func(), error) {
	driver, err := sqlitemigrate.WithInstance(s.db.DB, &sqlitemigrate.Config{})
	if err != nil {
		return nil, "", nil, err
	}
	// Closing the sqlite3 migrate driver closes the shared *sql.DB.
	return driver, "sqlite3", func() {}, nil
}
