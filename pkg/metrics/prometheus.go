// Package metrics provides Prometheus metrics for the cancha service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Roster
	playersCreated prometheus.Counter
	playersUpdated prometheus.Counter
	playersTotal   prometheus.Gauge

	// Balancing
	matchesBalanced      *prometheus.CounterVec
	balanceOvrDifference prometheus.Histogram

	// Evaluation
	evaluations        *prometheus.CounterVec
	evaluationRejected *prometheus.CounterVec
	improvementPoints  prometheus.Histogram
	ovrGrowth          prometheus.Histogram
	validationErrors   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository
	repositoryQueryLatency *prometheus.HistogramVec
	repositoryWriteLatency *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "cancha",
		latencyBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: name, Help: help, Buckets: buckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	pointBuckets := []float64{0, 1, 2, 4, 6, 8, 10, 12, 16, 20, 30}
	gapBuckets := []float64{0, 1, 2, 3, 5, 8, 13, 21}

	m.playersCreated = m.counter("players_created_total", "Total number of players created")
	m.playersUpdated = m.counter("players_updated_total", "Total number of explicit player edits")
	m.playersTotal = m.gauge("players_total", "Number of players in the store")

	m.matchesBalanced = m.counterVec("matches_balanced_total", "Total number of balanced matches by format", "format")
	m.balanceOvrDifference = m.histogram("balance_ovr_difference", "Absolute average OVR gap between the two teams", gapBuckets)

	m.evaluations = m.counterVec("evaluations_total", "Total number of evaluated matches by mode", "mode")
	m.evaluationRejected = m.counterVec("evaluations_rejected_total", "Evaluations refused before any growth was applied", "reason")
	m.improvementPoints = m.histogram("improvement_points", "Informational improvement points per player evaluation", pointBuckets)
	m.ovrGrowth = m.histogram("ovr_growth", "OVR change per player evaluation", pointBuckets)
	m.validationErrors = m.counterVec("validation_errors_total", "Rejected inputs by error kind", "kind")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.latencyBuckets, "endpoint", "method", "status_code")

	m.repositoryQueryLatency = m.histogramVec("repository_query_latency_milliseconds", "Store read latency in milliseconds",
		m.latencyBuckets, "store", "op")
	m.repositoryWriteLatency = m.histogramVec("repository_write_latency_milliseconds", "Store write latency in milliseconds",
		m.latencyBuckets, "store", "op")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordPlayerCreated increments the created players counter.
func RecordPlayerCreated() { globalManager.playersCreated.Inc() }

// RecordPlayerUpdated increments the edited players counter.
func RecordPlayerUpdated() { globalManager.playersUpdated.Inc() }

// UpdatePlayersTotal sets the store population gauge.
func UpdatePlayersTotal(count int) { globalManager.playersTotal.Set(float64(count)) }

// RecordMatchBalanced counts a balanced match and observes its OVR gap.
func RecordMatchBalanced(format string, ovrDifference int) {
	globalManager.matchesBalanced.WithLabelValues(format).Inc()
	globalManager.balanceOvrDifference.Observe(float64(ovrDifference))
}

// RecordEvaluation counts an applied match evaluation.
func RecordEvaluation(mode string) { globalManager.evaluations.WithLabelValues(mode).Inc() }

// RecordEvaluationRejected counts an evaluation refused with no side effects.
func RecordEvaluationRejected(reason string) {
	globalManager.evaluationRejected.WithLabelValues(reason).Inc()
}

// RecordPlayerGrowth observes one player's evaluation outcome.
func RecordPlayerGrowth(improvementPoints, ovrGrowth int) {
	globalManager.improvementPoints.Observe(float64(improvementPoints))
	globalManager.ovrGrowth.Observe(float64(ovrGrowth))
}

// RecordValidationError counts a rejected input by kind.
func RecordValidationError(kind string) { globalManager.validationErrors.WithLabelValues(kind).Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRepositoryQueryLatency records a store read in milliseconds.
func RecordRepositoryQueryLatency(store, op string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordRepositoryWriteLatency records a store write in milliseconds.
func RecordRepositoryWriteLatency(store, op string, latencyMs float64) {
	globalManager.repositoryWriteLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the registry the global collectors live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
