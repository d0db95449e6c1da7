// Package metrics provides Prometheus metrics for the configurator service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Simplici0/cabkit/internal/validation"
)

var (
	// Evaluation metrics
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cabkit_evaluations_total",
			Help: "Total number of parameter evaluations",
		},
		[]string{"source", "blocked"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cabkit_evaluation_duration_seconds",
			Help:    "Time taken to derive geometry, findings, price and BOM",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"source"},
	)

	FindingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cabkit_validation_findings_total",
			Help: "Total number of validation findings raised",
		},
		[]string{"rule", "severity"},
	)

	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cabkit_exports_total",
			Help: "Total number of export attempts",
		},
		[]string{"format", "outcome"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cabkit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cabkit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Export outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeBlocked = "blocked"
	OutcomeFailed  = "failed"
)

// RecordEvaluation records one pipeline run and the findings it produced.
func RecordEvaluation(source string, findings []validation.Finding, blocked bool, duration time.Duration) {
	EvaluationsTotal.WithLabelValues(source, boolLabel(blocked)).Inc()
	EvaluationDuration.WithLabelValues(source).Observe(duration.Seconds())
	for _, f := range findings {
		FindingsTotal.WithLabelValues(f.ID, string(f.Severity)).Inc()
	}
}

// RecordExport records an export attempt.
func RecordExport(format, outcome string) {
	ExportsTotal.WithLabelValues(format, outcome).Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
