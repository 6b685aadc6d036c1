// Field Atlas - India Field Site and Instrument Map
// Copyright 2026 Field Atlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldatlas/fieldatlas

// Package metrics provides Prometheus instrumentation for the map service:
// API latency and throughput, upstream fetch outcomes, circuit breaker
// state, cache efficiency, and marker construction counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream project API metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream project API requests by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "rejected"
	)

	UpstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream project API request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DataSourceStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "data_source_status",
			Help: "Active data source (1 for the current status label, 0 otherwise)",
		},
		[]string{"status"}, // "live", "fallback", "unavailable"
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Snapshot cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		},
	)

	// Map data metrics
	BoundaryFeaturesLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boundary_features_loaded",
			Help: "Number of boundary features loaded per level",
		},
		[]string{"level"}, // "state", "district"
	)

	MarkersBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markers_built_total",
			Help: "Total number of markers built per kind",
		},
		[]string{"kind"}, // "site", "instrument"
	)

	MarkersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markers_dropped_total",
			Help: "Total number of records skipped for invalid coordinates",
		},
		[]string{"kind"},
	)

	// WebSocket metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Current number of connected map clients",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetDataSourceStatus flips the status gauge so exactly one label reads 1.
func SetDataSourceStatus(status string) {
	for _, s := range []string{"live", "fallback", "unavailable"} {
		value := 0.0
		if s == status {
			value = 1.0
		}
		DataSourceStatus.WithLabelValues(s).Set(value)
	}
}
