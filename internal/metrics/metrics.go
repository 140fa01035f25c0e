// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package metrics provides Prometheus instrumentation for the file store
// and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamkeep_store_operation_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "kind"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamkeep_store_operation_errors_total",
			Help: "Total number of record store operation errors",
		},
		[]string{"operation", "kind", "error_type"},
	)

	// Lock metrics
	LockWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamkeep_lock_wait_duration_seconds",
			Help:    "Time spent acquiring per-file advisory locks",
			Buckets: []float64{0.001, 0.005, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	LockTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamkeep_lock_timeouts_total",
			Help: "Total number of lock acquisitions that exhausted their retry budget",
		},
	)

	// HTTP metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamkeep_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamkeep_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Audit metrics
	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamkeep_audit_events_dropped_total",
			Help: "Audit events dropped because the write buffer was full",
		},
	)
)

// RecordStoreOp records the outcome of one store operation.
func RecordStoreOp(operation, kind string, duration time.Duration, errType string) {
	StoreOpDuration.WithLabelValues(operation, kind).Observe(duration.Seconds())
	if errType != "" {
		StoreOpErrors.WithLabelValues(operation, kind, errType).Inc()
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
