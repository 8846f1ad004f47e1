package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/config"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/goals", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/goals", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/goals/:id", "PUT", "FORBIDDEN")

	snap := m.Snapshot()

	assert.Equal(t, int64(2), snap.Requests["/api/goals|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMsec["/api/goals|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/goals/:id|PUT|FORBIDDEN"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/items/:id|GET|204"])
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", Service: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = NewLogger(config.LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
}
