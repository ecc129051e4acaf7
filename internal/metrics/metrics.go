package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	authAttemptsTotal prometheus.Counter
	authSuccessTotal  prometheus.Counter
	authFailuresTotal prometheus.Counter
)

// Init registers the prometheus collectors under the given prefix. Must be
// called once before the middleware is installed.
func Init(prefix string) {
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	authAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_attempts_total",
		Help: "Total number of login attempts",
	})
	authSuccessTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_success_total",
		Help: "Total number of successful logins",
	})
	authFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_failures_total",
		Help: "Total number of failed logins",
	})
}

// Middleware records request count and duration per method/path/status.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if httpRequestsTotal == nil {
			return err
		}
		duration := time.Since(start).Seconds()

		method := c.Request().Method
		path := c.Path()
		status := strconv.Itoa(c.Response().Status)

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		return err
	}
}

// RecordAuthAttempt counts a login attempt.
func RecordAuthAttempt() {
	if authAttemptsTotal != nil {
		authAttemptsTotal.Inc()
	}
}

// RecordAuthSuccess counts a successful login.
func RecordAuthSuccess() {
	if authSuccessTotal != nil {
		authSuccessTotal.Inc()
	}
}

// RecordAuthFailure counts a rejected login.
func RecordAuthFailure() {
	if authFailuresTotal != nil {
		authFailuresTotal.Inc()
	}
}
