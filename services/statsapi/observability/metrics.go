// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the stats API.
//
// # Description
//
// Two metric families are exported:
//   - dataset: snapshot load attempts, load duration, records per table,
//     records skipped for missing ids
//   - http: request counts and latency per route
//
// Metrics are exposed via the /metrics endpoint.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics.
const metricsNamespace = "registrystats"

const (
	datasetSubsystem = "dataset"
	httpSubsystem    = "http"
)

// Metrics holds all Prometheus metrics for the stats API.
//
// Initialize once at startup via InitMetrics(); components reach it through
// DefaultMetrics with a nil guard so that library use and tests work without
// metrics.
type Metrics struct {
	// LoadsTotal counts snapshot load attempts.
	// Labels: status (success, error)
	LoadsTotal *prometheus.CounterVec

	// LoadDurationSeconds measures full four-way load duration.
	LoadDurationSeconds prometheus.Histogram

	// RecordsLoaded reports the record count per snapshot table for the
	// currently resident dataset.
	// Labels: table (providers, provider_stats, clients, client_stats)
	RecordsLoaded *prometheus.GaugeVec

	// RecordsSkippedTotal counts snapshot records dropped for a missing id.
	// Labels: table
	RecordsSkippedTotal *prometheus.CounterVec

	// RequestsTotal counts HTTP requests.
	// Labels: route, method, status
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures HTTP request latency.
	// Labels: route, method
	RequestDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance of Metrics, set by InitMetrics().
var DefaultMetrics *Metrics

// InitMetrics initializes and registers the default metrics instance.
// Calling it again returns the existing instance; promauto registration
// happens only once.
func InitMetrics() *Metrics {
	if DefaultMetrics != nil {
		return DefaultMetrics
	}
	DefaultMetrics = &Metrics{
		LoadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: datasetSubsystem,
				Name:      "loads_total",
				Help:      "Snapshot dataset load attempts by status",
			},
			[]string{"status"},
		),

		LoadDurationSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: datasetSubsystem,
				Name:      "load_duration_seconds",
				Help:      "Duration of the four-way snapshot load",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),

		RecordsLoaded: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: datasetSubsystem,
				Name:      "records_loaded",
				Help:      "Records indexed per snapshot table",
			},
			[]string{"table"},
		),

		RecordsSkippedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: datasetSubsystem,
				Name:      "records_skipped_total",
				Help:      "Snapshot records skipped for a missing id",
			},
			[]string{"table"},
		),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "requests_total",
				Help:      "HTTP requests by route, method, and status code",
			},
			[]string{"route", "method", "status"},
		),

		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route and method",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route", "method"},
		),
	}
	return DefaultMetrics
}

// RecordLoad records one snapshot load attempt.
func (m *Metrics) RecordLoad(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.LoadsTotal.WithLabelValues(status).Inc()
	m.LoadDurationSeconds.Observe(duration.Seconds())
}

// RecordTableSize sets the resident record count for one table.
func (m *Metrics) RecordTableSize(table string, n int) {
	m.RecordsLoaded.WithLabelValues(table).Set(float64(n))
}

// RecordSkipped counts records dropped from one table for a missing id.
func (m *Metrics) RecordSkipped(table string, n int) {
	m.RecordsSkippedTotal.WithLabelValues(table).Add(float64(n))
}

// RecordRequest records one completed HTTP request.
func (m *Metrics) RecordRequest(route, method, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
	m.RequestDurationSeconds.WithLabelValues(route, method).Observe(duration.Seconds())
}
