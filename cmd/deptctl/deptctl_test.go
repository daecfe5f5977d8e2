package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/auth"
	"github.com/spec-kit/department-app/internal/persistence"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useSQLite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := "file:" + filepath.Join(dir, "deptctl.db")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("LOG_LEVEL", "error")
	return dsn
}

func TestMigrateAndSeed(t *testing.T) {
	dsn := useSQLite(t)

	out, err := run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "migrate up: done (sqlite)")

	out, err = run(t, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded 3 departments and 5 employees\n", out)

	db, err := persistence.NewSQLite(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	var count int
	require.NoError(t, db.DB().Get(&count, `SELECT COUNT(*) FROM employees`))
	assert.Equal(t, 5, count)
	db.Close()

	_, err = run(t, "migrate", "down")
	require.NoError(t, err)
}

func TestHashPassword(t *testing.T) {
	useSQLite(t)
	out, err := run(t, "hash-password", "--cost", "4", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(strings.TrimSpace(out), "s3cret"))

	_, err = run(t, "hash-password")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	useSQLite(t)
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--username", "ops")
	require.NoError(t, err)

	claims, err := auth.NewTokenManager("cli-secret", 0).ParseToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}
