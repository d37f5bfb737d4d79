// Package metrics provides Prometheus metrics for the copyright assistant client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the client, the streaming
// fetcher and the stub backend.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Outbound calls through the shared client.
	clientRequests        *prometheus.CounterVec
	clientRequestDuration *prometheus.HistogramVec
	clientErrors          *prometheus.CounterVec
	blobBytes             *prometheus.CounterVec

	// Raw streaming fetches.
	streamOpens    *prometheus.CounterVec
	streamEvents   *prometheus.CounterVec
	streamDuration *prometheus.HistogramVec

	// Stub backend.
	serverRequests        *prometheus.CounterVec
	serverRequestDuration *prometheus.HistogramVec
	queueDepth            prometheus.Gauge
	jobs                  *prometheus.CounterVec
	jobDuration           prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "softcopyright",
		subsystem:        "client",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.clientRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "requests_total",
		Help:        "Outbound requests issued through the shared client",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.clientRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "request_duration_milliseconds",
		Help:        "Outbound request latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.clientErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Outbound request failures by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "error_type"})

	m.blobBytes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "blob_bytes_total",
		Help:        "Bytes received by blob (download) calls",
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})

	m.streamOpens = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stream",
		Name:        "opens_total",
		Help:        "Streaming fetches opened, by endpoint and outcome",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "outcome"})

	m.streamEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stream",
		Name:        "events_total",
		Help:        "Server-sent events decoded from streaming responses",
		ConstLabels: m.constLabels,
	}, []string{"event"})

	m.streamDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "stream",
		Name:        "time_to_headers_milliseconds",
		Help:        "Time until a streaming response delivered its headers",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint"})

	m.serverRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "http_requests_total",
		Help:        "Requests served by the stub backend",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.serverRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "http_request_duration_milliseconds",
		Help:        "Stub backend request latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "queue_depth",
		Help:        "Project generation jobs waiting for a worker",
		ConstLabels: m.constLabels,
	})

	m.jobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "jobs_total",
		Help:        "Project generation jobs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.jobDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "job_duration_milliseconds",
		Help:        "Time a worker spent on one project generation job",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
}

// RecordClientRequest counts one completed outbound request and its latency.
func (m *Manager) RecordClientRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.clientRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.clientRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordClientError counts a failed outbound request.
func (m *Manager) RecordClientError(endpoint, errorType string) {
	if !m.enabled {
		return
	}
	m.clientErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordBlobBytes adds n downloaded bytes for endpoint.
func (m *Manager) RecordBlobBytes(endpoint string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.blobBytes.WithLabelValues(endpoint).Add(float64(n))
}

// RecordStreamOpen counts a streaming fetch and how long headers took.
func (m *Manager) RecordStreamOpen(endpoint, outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.streamOpens.WithLabelValues(endpoint, outcome).Inc()
	m.streamDuration.WithLabelValues(endpoint).Observe(durationMs)
}

// RecordStreamEvent counts one decoded server-sent event.
func (m *Manager) RecordStreamEvent(event string) {
	if !m.enabled {
		return
	}
	m.streamEvents.WithLabelValues(event).Inc()
}

// RecordServerRequest counts one request handled by the stub backend.
func (m *Manager) RecordServerRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.serverRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.serverRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateQueueDepth sets the number of queued generation jobs.
func (m *Manager) UpdateQueueDepth(n int) {
	if !m.enabled {
		return
	}
	m.queueDepth.Set(float64(n))
}

// RecordJob counts one generation job. Rejected jobs carry no duration.
func (m *Manager) RecordJob(outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.jobs.WithLabelValues(outcome).Inc()
	if durationMs > 0 {
		m.jobDuration.Observe(durationMs)
	}
}

// Package-level shortcuts over the global manager.

// Default returns the global manager.
func Default() *Manager { return globalManager }

// RecordClientRequest records on the global manager.
func RecordClientRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordClientRequest(endpoint, method, statusCode, durationMs)
}

// RecordClientError records on the global manager.
func RecordClientError(endpoint, errorType string) {
	globalManager.RecordClientError(endpoint, errorType)
}

// RecordBlobBytes records on the global manager.
func RecordBlobBytes(endpoint string, n int) {
	globalManager.RecordBlobBytes(endpoint, n)
}

// RecordStreamOpen records on the global manager.
func RecordStreamOpen(endpoint, outcome string, durationMs float64) {
	globalManager.RecordStreamOpen(endpoint, outcome, durationMs)
}

// RecordStreamEvent records on the global manager.
func RecordStreamEvent(event string) {
	globalManager.RecordStreamEvent(event)
}

// RecordServerRequest records on the global manager.
func RecordServerRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordServerRequest(endpoint, method, statusCode, durationMs)
}

// UpdateQueueDepth records on the global manager.
func UpdateQueueDepth(n int) {
	globalManager.UpdateQueueDepth(n)
}

// RecordJob records on the global manager.
func RecordJob(outcome string, durationMs float64) {
	globalManager.RecordJob(outcome, durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
