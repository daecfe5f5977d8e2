package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/department-app/internal/auth"
	"github.com/spec-kit/department-app/internal/config"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/b", "GET", 200, 2*time.Millisecond)
	m.RecordRequest("/a", "POST", 201, 4*time.Millisecond)
	m.RecordRequest("/a", "POST", 201, 2*time.Millisecond)
	m.RecordError("/a", "POST", "VALIDATION_FAILED")

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, RouteStat{Method: "POST", Path: "/a", Status: "201", Count: 2, AvgDurationMsec: 3}, snap.Requests[0])
	assert.Equal(t, "/b", snap.Requests[1].Path)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "VALIDATION_FAILED", snap.Errors[0].Status)

	var disabled *Metrics
	disabled.RecordRequest("/a", "GET", 200, time.Millisecond)
	assert.Empty(t, disabled.Snapshot().Requests)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return fiber.DefaultErrorHandler(c, err)
		}
		return nil
	})
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/bad", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusBadRequest) })
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals(auth.LocalsUsername, "admin")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Use(NotFound)

	for _, target := range []string{"/items/1", "/items/2", "/bad", "/me", "/scan/1", "/scan/2"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.FilterMessage("request handled").All()
	require.Len(t, entries, 6)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/items/1", entries[0].ContextMap()["path"])
	assert.Equal(t, "GET", entries[0].ContextMap()["method"])
	assert.Equal(t, "/items/2", entries[1].ContextMap()["path"])
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, "admin", entries[3].ContextMap()["user"])
	assert.NotContains(t, entries[0].ContextMap(), "user")
	assert.Equal(t, "/scan/1", entries[4].ContextMap()["path"])

	snap := metrics.Snapshot()
	require.Len(t, snap.Requests, 4)
	assert.Equal(t, "/bad", snap.Requests[0].Path)
	assert.Equal(t, "/items/:id", snap.Requests[1].Path)
	assert.Equal(t, int64(2), snap.Requests[1].Count)
	assert.Equal(t, "/me", snap.Requests[2].Path)
	assert.Equal(t, UnmatchedRoute, snap.Requests[3].Path)
	assert.Equal(t, "404", snap.Requests[3].Status)
	assert.Equal(t, int64(2), snap.Requests[3].Count)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"}, "department-app")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"}, "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
