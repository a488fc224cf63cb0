package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder mirrors what the Registry records into prometheus
// collectors for the /metrics endpoint.
type MetricsRecorder struct {
	errorTotal      *prometheus.CounterVec
	activeRequests  prometheus.Gauge
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	pdfSize         prometheus.Histogram
}

// NewMetricsRecorder registers the collectors with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRecorder(reg prometheus.Registerer) *MetricsRecorder {
	factory := promauto.With(reg)

	return &MetricsRecorder{
		errorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagegen_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"error_type"},
		),

		activeRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "imagegen_active_requests",
				Help: "Number of requests currently being processed",
			},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imagegen_request_duration_seconds",
				Help:    "Time taken to process requests",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),

		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagegen_requests_total",
				Help: "Total number of requests received",
			},
			[]string{"method", "endpoint"},
		),

		pdfSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imagegen_pdf_size_bytes",
				Help:    "Size of generated PDFs in bytes",
				Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
			},
		),
	}
}

func (m *MetricsRecorder) IncreaseError(errorType string) {
	m.errorTotal.WithLabelValues(errorType).Inc()
}

func (m *MetricsRecorder) IncreaseActiveRequests() {
	m.activeRequests.Inc()
}

func (m *MetricsRecorder) DecreaseActiveRequests() {
	m.activeRequests.Dec()
}

func (m *MetricsRecorder) ObserveRequestDuration(outcome string, duration float64) {
	m.requestDuration.WithLabelValues(outcome).Observe(duration)
}

func (m *MetricsRecorder) ObservePDFSize(size float64) {
	m.pdfSize.Observe(size)
}

func (m *MetricsRecorder) IncreaseRequestTotal(method, endpoint string) {
	m.requestsTotal.WithLabelValues(method, endpoint).Inc()
}

// RecordRequest, RecordResponseTime and RecordError let the recorder sit
// next to the Registry behind the instrumentation wrapper. Every request is
// paired with exactly one response time, which keeps the gauge balanced.

func (m *MetricsRecorder) RecordRequest(endpoint, method string) {
	m.IncreaseRequestTotal(method, endpoint)
	m.IncreaseActiveRequests()
}

func (m *MetricsRecorder) RecordResponseTime(duration float64, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.ObserveRequestDuration(outcome, duration)
	m.DecreaseActiveRequests()
}

// RecordError drops the message; it would explode label cardinality.
func (m *MetricsRecorder) RecordError(kind, _ string) {
	m.IncreaseError(kind)
}
