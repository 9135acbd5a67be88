// CityWatch - Crime Incident Analytics and Mapping
// Copyright 2026 Watchdawg Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/watchdawg/citywatch

// Package metrics exposes Prometheus instrumentation for ingestion runs,
// the query pipeline, the response cache, and the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics.
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_duration_seconds",
			Help:    "Duration of full ingestion runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	IngestRowsRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_read_total",
			Help: "Total number of extract rows read across all ingestion runs",
		},
	)

	IngestRowsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_accepted_total",
			Help: "Total number of rows accepted into the canonical store",
		},
	)

	IngestRowsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_rejected_total",
			Help: "Total number of rows rejected during ingestion",
		},
		[]string{"reason"},
	)

	IngestLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_last_success_timestamp",
			Help: "Unix timestamp of the last successful ingestion run",
		},
	)

	// Store metrics.
	StoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_records",
			Help: "Number of records in the served store snapshot",
		},
	)

	StoreGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_generation",
			Help: "Generation counter of the served store snapshot",
		},
	)

	// Query pipeline metrics.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "query_duration_seconds",
			Help:    "Duration of filter pipeline runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"endpoint"},
	)

	QueryDisabledPredicates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_disabled_predicates_total",
			Help: "Total number of filter predicates disabled for malformed input",
		},
		[]string{"reason"},
	)

	// Response cache metrics.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// HTTP metrics.
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
			Help: "Current number of in-flight API requests",
		},
	)

	// Extract fetch circuit breaker metrics.
	FetchBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fetch_circuit_breaker_state",
			Help: "Extract fetch circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_requests_total",
			Help: "Total number of extract fetch attempts through the breaker",
		},
		[]string{"result"}, // success, failure, rejected
	)
)

// RecordIngestRun records the outcome of one ingestion run.
func RecordIngestRun(duration time.Duration, rowsRead, rowsAccepted int64, rejectedByReason map[string]int64, err error) {
	IngestDuration.Observe(duration.Seconds())
	IngestRowsRead.Add(float64(rowsRead))
	IngestRowsAccepted.Add(float64(rowsAccepted))
	for reason, n := range rejectedByReason {
		IngestRowsRejected.WithLabelValues(reason).Add(float64(n))
	}
	if err == nil {
		IngestLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordSnapshotSwap records the served snapshot's size and generation.
func RecordSnapshotSwap(records int, generation uint64) {
	StoreRecords.Set(float64(records))
	StoreGeneration.Set(float64(generation))
}

// RecordQuery records one filter pipeline run and any predicates it had to
// disable.
func RecordQuery(endpoint string, duration time.Duration, reasons []string) {
	QueryDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	for _, reason := range reasons {
		QueryDisabledPredicates.WithLabelValues(reason).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records one response cache lookup.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}
