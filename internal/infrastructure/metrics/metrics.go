package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Potree-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Job counters by terminal status
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "jobs_total",
			Help:      "Total processed jobs",
		},
		[]string{"status"},
	)

	// Pipeline step duration
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "job_step_duration_seconds",
			Help:      "Job pipeline step duration in seconds",
			Buckets:   []float64{0.5, 1, 5, 15, 60, 300, 900, 1800},
		},
		[]string{"step"},
	)

	// Converter invocations
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "conversions_total",
			Help:      "Total PotreeConverter invocations",
		},
		[]string{"status"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes accepted for processing",
		},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "storage_operations_total",
			Help:      "Total object storage operations",
		},
		[]string{"operation", "status"},
	)

	// Queue depth gauge
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "potree",
			Subsystem: "api",
			Name:      "queue_depth",
			Help:      "Number of pending jobs",
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordJob records a job reaching a terminal status
func RecordJob(status string) {
	JobsTotal.WithLabelValues(status).Inc()
}

// RecordStep records one pipeline step
func RecordStep(step string, durationSec float64) {
	StepDuration.WithLabelValues(step).Observe(durationSec)
}

// RecordConversion records a converter invocation
func RecordConversion(status string) {
	ConversionsTotal.WithLabelValues(status).Inc()
}

// RecordStorageOperation records an object storage operation
func RecordStorageOperation(operation, status string) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
}
