package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/config"
)

func tableNames(t *testing.T, db Database) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.DB().Select(&names,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('departments', 'employees') ORDER BY name`))
	return names
}

func TestOpen_SQLiteRunsMigrations(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver:        config.DriverSQLite,
		URL:           ":memory:",
		RunMigrations: true,
	}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DriverSQLite, db.Driver())
	assert.NoError(t, db.Ping(context.Background()))
	assert.Equal(t, []string{"departments", "employees"}, tableNames(t, db))

	// Re-running is a no-op.
	assert.NoError(t, MigrateUp(db, zap.NewNop()))
}

func TestMigrateDown_DropsSchema(t *testing.T) {
	logger := zap.NewNop()
	db, err := NewSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateUp(db, logger))
	require.NoError(t, MigrateDown(db, logger))
	assert.Empty(t, tableNames(t, db))

	require.NoError(t, MigrateUp(db, logger))
	assert.Len(t, tableNames(t, db), 2)
}

func TestSQLite_ForeignKeysEnforced(t *testing.T) {
	logger := zap.NewNop()
	db, err := NewSQLite(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.DB().Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSQLite(context.Background(), "", zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedis(t *testing.T) {
	logger := zap.NewNop()
	assert.Nil(t, NewRedis(context.Background(), config.RedisConfig{}, logger))

	var disabled *Redis
	assert.Error(t, disabled.Ping(context.Background()))
	disabled.Close()

	server := miniredis.RunT(t)
	r := NewRedis(context.Background(), config.RedisConfig{Addr: server.Addr()}, logger)
	require.NotNil(t, r)
	defer r.Close()
	assert.NoError(t, r.Ping(context.Background()))
}
