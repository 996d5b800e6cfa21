// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by path, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valyxo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "valyxo_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// SeriesBuilds counts chart series pipeline runs per metric.
	SeriesBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valyxo_series_builds_total",
			Help: "Total number of chart series built",
		},
		[]string{"metric"},
	)

	// RefreshRuns counts agent refresh job outcomes.
	RefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valyxo_refresh_runs_total",
			Help: "Total number of snapshot refresh sweeps",
		},
		[]string{"outcome"},
	)

	// InsightGenerations counts narrative insight generation outcomes.
	InsightGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valyxo_insight_generations_total",
			Help: "Total number of insight generation runs",
		},
		[]string{"outcome"},
	)
)
