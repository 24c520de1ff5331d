// Package metrics provides Prometheus metrics for the pixwatch monitor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the monitor.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Probe metrics
	probeLatency  *prometheus.HistogramVec
	probeFailures *prometheus.CounterVec
	probeTotal    *prometheus.CounterVec

	// Status metrics
	statusLevel      *prometheus.GaugeVec
	failureLogLength prometheus.Gauge
	checkCycles      *prometheus.CounterVec
	checkDuration    prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Probe latencies live in seconds; upstream thresholds are 2.5s and 5s.
var defaultProbeBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pixwatch",
		subsystem:        "monitor",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.probeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "probe_connect_seconds",
		Help:        "TCP connect latency of successful probes",
		Buckets:     defaultProbeBuckets,
		ConstLabels: constLabels,
	}, []string{"target"})

	m.probeFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "probe_failures_total",
		Help:        "Failed probes by target and stage (dns, tcp)",
		ConstLabels: constLabels,
	}, []string{"target", "stage"})

	m.probeTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "probes_total",
		Help:        "Probes executed by target",
		ConstLabels: constLabels,
	}, []string{"target"})

	m.statusLevel = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "status",
		Help:        "Current published status; the active level is 1, others 0",
		ConstLabels: constLabels,
	}, []string{"level"})

	m.failureLogLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "failure_log_entries",
		Help:        "Entries currently held in the failure log",
		ConstLabels: constLabels,
	})

	m.checkCycles = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "check_cycles_total",
		Help:        "Completed check cycles by outcome (ok, recovered)",
		ConstLabels: constLabels,
	}, []string{"outcome"})

	m.checkDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "check_cycle_seconds",
		Help:        "Wall time of a full check cycle",
		Buckets:     defaultProbeBuckets,
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP responses with status >= 400 by endpoint and error type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Current number of goroutines",
		ConstLabels: constLabels,
	})
}

// RecordProbe records the outcome of one probe. stage is empty on success.
func (m *Manager) RecordProbe(target string, ok bool, stage string, latencySeconds float64) {
	if !m.enabled {
		return
	}
	m.probeTotal.WithLabelValues(target).Inc()
	if ok {
		m.probeLatency.WithLabelValues(target).Observe(latencySeconds)
		return
	}
	m.probeFailures.WithLabelValues(target, stage).Inc()
}

// SetStatus flags level as the active status and clears the others.
func (m *Manager) SetStatus(level string, known []string) {
	if !m.enabled {
		return
	}
	for _, l := range known {
		m.statusLevel.WithLabelValues(l).Set(0)
	}
	m.statusLevel.WithLabelValues(level).Set(1)
}

// UpdateFailureLogLength sets the failure log gauge.
func (m *Manager) UpdateFailureLogLength(n int) {
	if m.enabled {
		m.failureLogLength.Set(float64(n))
	}
}

// RecordCheckCycle records a finished check cycle.
func (m *Manager) RecordCheckCycle(outcome string, seconds float64) {
	if !m.enabled {
		return
	}
	m.checkCycles.WithLabelValues(outcome).Inc()
	m.checkDuration.Observe(seconds)
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if m.enabled {
		m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystem sets process-level gauges.
func (m *Manager) UpdateSystem(heapBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(heapBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Global helpers delegate to the singleton manager.

func RecordProbe(target string, ok bool, stage string, latencySeconds float64) {
	globalManager.RecordProbe(target, ok, stage, latencySeconds)
}

func SetStatus(level string, known []string) { globalManager.SetStatus(level, known) }

func UpdateFailureLogLength(n int) { globalManager.UpdateFailureLogLength(n) }

func RecordCheckCycle(outcome string, seconds float64) {
	globalManager.RecordCheckCycle(outcome, seconds)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

func UpdateSystem(heapBytes uint64, goroutines int) {
	globalManager.UpdateSystem(heapBytes, goroutines)
}

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
