package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(201))
	assert.Equal(t, OutcomeClientError, Outcome(404))
	assert.Equal(t, OutcomeServerError, Outcome(500))
}

func TestObserveOperation(t *testing.T) {
	m := New()
	m.ObserveOperation("CPU", "create", 201)
	m.ObserveOperation("CPU", "create", 201)
	m.ObserveOperation("CPU", "create", 400)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("CPU", "create", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("CPU", "create", OutcomeClientError)))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveOperation("CPU", "get", 200)
		nilMetrics.SetProductCount("CPU", 1)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/cpu/:uuid", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cpu/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hwcatalog_http_request_duration_seconds_count{method="GET",path="/api/cpu/:uuid",status="404"} 1`)
}
