package observability

import (
	"database/sql"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate by route template and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// Climate engine calls by operation and outcome (ok, invalid, not_found, out_of_bounds, empty, error).
	ClimateQueriesTotal *prometheus.CounterVec

	// Rate limit denials.
	RateLimitDeniedTotal prometheus.Counter

	dbStatsMu sync.Mutex
	dbStats   prometheus.Collector
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ClimateQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climateQueriesTotal",
			Help: "Total number of climate queries by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ClimateQueriesTotal,
		RateLimitDeniedTotal,
	)
}

// RecordClimateQuery counts one engine call.
func RecordClimateQuery(operation, outcome string) {
	ClimateQueriesTotal.WithLabelValues(operation, outcome).Inc()
}

// RegisterDBStats exposes connection pool statistics for db. A later call
// replaces the previously registered pool.
func RegisterDBStats(db *sql.DB, name string) {
	dbStatsMu.Lock()
	defer dbStatsMu.Unlock()
	if dbStats != nil {
		registry.Unregister(dbStats)
	}
	dbStats = collectors.NewDBStatsCollector(db, name)
	registry.MustRegister(dbStats)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
