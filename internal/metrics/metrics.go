// Package metrics provides Prometheus collectors and HTTP middleware for
// the engineers app.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineers_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engineers_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// StreamingConnections tracks in-flight server-sent event responses.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "engineers_sse_connections_active",
			Help: "Active SSE connections",
		},
	)

	// StageFailuresTotal counts pipeline failures by kind
	// (unauthorized, invalid_credentials, not_found, bad_request).
	StageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineers_stage_failures_total",
			Help: "Request pipeline failures",
		},
		[]string{"kind"},
	)

	// UsersRegisteredTotal counts successful registrations.
	UsersRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engineers_users_registered_total",
			Help: "Registered users",
		},
	)

	// EngineerWritesTotal counts engineer mutations by operation.
	EngineerWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engineers_engineer_writes_total",
			Help: "Engineer create, update and delete operations",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		StageFailuresTotal,
		UsersRegisteredTotal,
		EngineerWritesTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
