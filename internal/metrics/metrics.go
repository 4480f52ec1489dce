// Package metrics provides Prometheus metrics for the reconciliation service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gazetteer operations
const (
	OperationSearch = "search"
	OperationFetch  = "fetch"
)

// StatusError labels requests that never received an HTTP status
const StatusError = "error"

var (
	// GazetteerRequestsTotal tracks outbound gazetteer requests by operation and status
	GazetteerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconcile",
			Subsystem: "gazetteer",
			Name:      "requests_total",
			Help:      "Total number of gazetteer requests by operation and status",
		},
		[]string{"operation", "status_code"},
	)

	// GazetteerRequestDuration tracks gazetteer request duration
	GazetteerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reconcile",
			Subsystem: "gazetteer",
			Name:      "request_duration_seconds",
			Help:      "Duration of gazetteer requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// RateLimitWaitTime tracks time spent waiting for the gazetteer rate limiter
	RateLimitWaitTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reconcile",
			Subsystem: "ratelimit",
			Name:      "wait_seconds",
			Help:      "Time spent waiting for the gazetteer rate limiter in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	// QueriesTotal tracks reconciled queries by scorer
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconcile",
			Subsystem: "queries",
			Name:      "total",
			Help:      "Total number of reconciled queries by routing",
		},
		[]string{"routing"},
	)

	// BatchesTotal tracks query batches by outcome
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reconcile",
			Subsystem: "batches",
			Name:      "total",
			Help:      "Total number of query batches by status",
		},
		[]string{"status"},
	)

	// BatchDuration tracks query batch duration
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reconcile",
			Subsystem: "batches",
			Name:      "duration_seconds",
			Help:      "Duration of query batches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// RecordGazetteerRequest records an outbound gazetteer request. A zero status
// means the request failed before a response arrived.
func RecordGazetteerRequest(operation string, status int, durationSeconds float64) {
	label := StatusError
	if status != 0 {
		label = strconv.Itoa(status)
	}
	GazetteerRequestsTotal.WithLabelValues(operation, label).Inc()
	GazetteerRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordRateLimitWait records time spent in the rate limiter
func RecordRateLimitWait(durationSeconds float64) {
	RateLimitWaitTime.Observe(durationSeconds)
}

// RecordQuery records a reconciled query
func RecordQuery(routing string) {
	QueriesTotal.WithLabelValues(routing).Inc()
}

// RecordBatch records a finished query batch
func RecordBatch(status string, durationSeconds float64) {
	BatchesTotal.WithLabelValues(status).Inc()
	BatchDuration.Observe(durationSeconds)
}
