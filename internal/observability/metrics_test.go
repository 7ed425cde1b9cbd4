package observability

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/cv", http.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/api/cv", http.MethodGet, 200, 30*time.Millisecond)
	m.RecordRequest("/api/cv", http.MethodPost, 401, time.Millisecond)
	m.RecordError("/api/cv", http.MethodPost, "UNAUTHORIZED")

	snap := m.Snapshot()

	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.Requests["/api/cv|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMS["/api/cv|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/cv|POST|UNAUTHORIZED"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, time.Second)
	m.RecordError("/", http.MethodGet, "X")
	assert.Zero(t, m.Snapshot().TotalRequests)
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/api/cv/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/cv/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/api/cv/:id|GET|204"])
}

func TestRouteKeyFoldsUnmatchedPaths(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if fiberErr, ok := err.(*fiber.Error); ok {
			return c.SendStatus(fiberErr.Code)
		}
		return err
	})
	app.Use(func(c *fiber.Ctx) error {
		if c.Path() == "/named" {
			c.Locals(RouteLocalKey, "/named/*")
			return c.SendStatus(http.StatusUnauthorized)
		}
		return c.Next()
	})
	app.Get("/api/cv/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	for i := 0; i < 20; i++ {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing/"+strconv.Itoa(i), nil))
		require.NoError(t, err)
	}
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/named", nil))
	require.NoError(t, err)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(20), snap.Requests["unmatched|GET|404"])
	assert.Equal(t, int64(1), snap.Requests["/named/*|GET|401"])
	assert.Len(t, snap.Requests, 2)
}
