package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of the API.
type Metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	mutations *prometheus.CounterVec
	exports   *prometheus.CounterVec
}

// NewMetrics registers the API collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akademi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "akademi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akademi",
			Name:      "mutations_total",
			Help:      "Records created, updated or deleted by resource and action.",
		}, []string{"resource", "action"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "akademi",
			Name:      "exports_total",
			Help:      "Files generated by resource and format.",
		}, []string{"resource", "format"}),
	}
	reg.MustRegister(m.requests, m.latency, m.mutations, m.exports)
	return m
}

func (m *Metrics) mutated(resource, action string, n int) {
	if n > 0 {
		m.mutations.WithLabelValues(resource, action).Add(float64(n))
	}
}

func (m *Metrics) exported(resource, format string) {
	m.exports.WithLabelValues(resource, format).Inc()
}

// middleware counts and times every request by route template.
func (m *Metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil && !ctx.Response().Committed {
			// let the error handler write the response to know the status code
			ctx.Error(err)
		}

		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request().Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}
