// Package telemetry holds Prometheus metrics for validation-level observability.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for the validation pipeline.
type BusinessMetrics struct {
	// Batch outcomes
	BatchesValidated *prometheus.CounterVec
	BatchOrders      prometheus.Histogram
	BatchDuration    *prometheus.HistogramVec

	// Field-level findings
	ValidationErrors *prometheus.CounterVec

	// Reference catalog
	LookupDuration *prometheus.HistogramVec
}

// Business is the process-wide metrics instance.
var Business = NewBusinessMetrics("salesimport")

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "salesimport"
	}

	subsystem := "validation"

	return &BusinessMetrics{
		BatchesValidated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batches_total",
				Help:      "Total validated batches by outcome",
			},
			[]string{"outcome"}, // outcome: accepted, rejected, failed
		),
		BatchOrders: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_orders",
				Help:      "Orders per validated batch",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),
		BatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_duration_seconds",
				Help:      "Time spent validating one batch",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"outcome"},
		),
		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "field_errors_total",
				Help:      "Total field-level validation errors",
			},
			[]string{"location"}, // location: header, line
		),
		LookupDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "lookup_duration_seconds",
				Help:      "Reference catalog lookup duration",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"table", "outcome"}, // outcome: hit, miss, error
		),
	}
}
