// Package metrics provides Prometheus instrumentation for the catalog.
//
// Each Metrics value owns its registry, so tests and multiple apps in one
// process never collide on registration.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hwcatalog"

// Operation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

type Metrics struct {
	registry *prometheus.Registry

	// RequestDuration tracks HTTP latency by method, route and status.
	RequestDuration *prometheus.HistogramVec
	// Operations counts engine operations by category, operation and outcome.
	Operations *prometheus.CounterVec
	// Products reports the size of each category at the last aggregate read.
	Products *prometheus.GaugeVec
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "products",
				Name:      "operations_total",
				Help:      "Product operations by category, operation and outcome.",
			},
			[]string{"category", "operation", "outcome"},
		),
		Products: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "products",
				Name:      "count",
				Help:      "Products per category at the last aggregate listing.",
			},
			[]string{"category"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.Operations,
		m.Products,
	)
	return m
}

// Registry exposes the registry, for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records the duration of every request under its route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.RequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// ObserveOperation counts one engine operation. Safe on a nil receiver.
func (m *Metrics) ObserveOperation(category, operation string, status int) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(category, operation, Outcome(status)).Inc()
}

// SetProductCount records a category size. Safe on a nil receiver.
func (m *Metrics) SetProductCount(category string, n int) {
	if m == nil {
		return
	}
	m.Products.WithLabelValues(category).Set(float64(n))
}

// Outcome classifies an HTTP status.
func Outcome(status int) string {
	switch {
	case status >= 500:
		return OutcomeServerError
	case status >= 400:
		return OutcomeClientError
	default:
		return OutcomeSuccess
	}
}
