// Package metrics owns the prometheus collectors of the service.
// Every collector lives on a private registry so tests and multiple
// servers in one process never collide on registration.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and the collectors fed by the HTTP layer and the jobs.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ordersByStatus  *prometheus.GaugeVec
	jobRunsTotal    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ordersByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shipping_orders_by_status",
				Help: "Number of live orders per status",
			},
			[]string{"status"},
		),
		jobRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipping_job_runs_total",
				Help: "Background job executions by outcome",
			},
			[]string{"job", "outcome"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ordersByStatus,
		m.jobRunsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, path, code).Inc()
	m.requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// SetOrdersByStatus replaces the gauge values. Statuses missing from counts drop to zero.
func (m *Metrics) SetOrdersByStatus(statuses []string, counts map[string]int64) {
	for _, status := range statuses {
		m.ordersByStatus.WithLabelValues(status).Set(float64(counts[status]))
	}
}

// JobFinished counts one run of a background job.
func (m *Metrics) JobFinished(job string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRunsTotal.WithLabelValues(job, outcome).Inc()
}

// Middleware records every request under its route pattern, never the raw URL,
// to keep label cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}
