// Package metrics provides Prometheus metrics for the betsafe service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the betsafe service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core business metrics
	evaluations      *prometheus.CounterVec
	evaluationErrors *prometheus.CounterVec
	safetyScore      prometheus.Histogram
	rankingSize      prometheus.Histogram
	topKReturned     prometheus.Histogram

	// Dataset metrics
	datasetRecords        prometheus.Gauge
	lookups               *prometheus.CounterVec
	repositoryQueryLatency prometheus.Histogram

	// Enrichment metrics
	enrichRequests  *prometheus.CounterVec
	enrichLatency   prometheus.Histogram
	enrichCacheHits prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "betsafe",
		subsystem:        "advisor",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("evaluations_total"),
		Help:        "Total number of bet evaluations by variant, status and advice",
		ConstLabels: labels,
	}, []string{"variant", "status", "advice"})

	m.evaluationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("evaluation_errors_total"),
		Help:        "Total number of rejected evaluations by reason",
		ConstLabels: labels,
	}, []string{"reason"})

	m.safetyScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("safety_score"),
		Help:        "Distribution of safety scores (positive means outside the uncertainty band)",
		Buckets:     []float64{-10, -5, -2, -1, -0.5, 0, 0.5, 1, 2, 5, 10},
		ConstLabels: labels,
	})

	m.rankingSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("ranking_input_size"),
		Help:        "Number of bets submitted per ranking request",
		Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250},
		ConstLabels: labels,
	})

	m.topKReturned = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("topk_returned"),
		Help:        "Number of SAFE bets returned per top-K request",
		Buckets:     []float64{0, 1, 2, 3, 5, 10, 25},
		ConstLabels: labels,
	})

	m.datasetRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("dataset_records"),
		Help:        "Number of prediction records loaded",
		ConstLabels: labels,
	})

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("lookups_total"),
		Help:        "Dataset lookups by result",
		ConstLabels: labels,
	}, []string{"result"})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("repository_query_latency_milliseconds"),
		Help:        "Dataset lookup latency in milliseconds",
		Buckets:     []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		ConstLabels: labels,
	})

	m.enrichRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("enrich_requests_total"),
		Help:        "Upstream profile lookups by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.enrichLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("enrich_latency_milliseconds"),
		Help:        "Upstream profile lookup latency in milliseconds",
		Buckets:     []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		ConstLabels: labels,
	})

	m.enrichCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("enrich_cache_hits_total"),
		Help:        "Profile lookups served from the in-process memo",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_component_total"),
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by endpoint, method and type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("error_latency_milliseconds"),
		Help:        "Latency of operations that ended in an error",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Enabled reports whether recording is switched on for this manager.
func (m *Manager) Enabled() bool { return m.enabled }

// active reports whether the global manager records anything. Every
// Record and Update helper is a no-op while it is disabled.
func active() bool { return globalManager != nil && globalManager.enabled }

// RecordEvaluation counts one evaluation and observes its safety score.
func RecordEvaluation(variant, status, advice string, safetyScore float64) {
	if !active() {
		return
	}
	globalManager.evaluations.WithLabelValues(variant, status, advice).Inc()
	globalManager.safetyScore.Observe(safetyScore)
}

// RecordEvaluationError counts an evaluation rejected before scoring.
func RecordEvaluationError(reason string) {
	if !active() {
		return
	}
	globalManager.evaluationErrors.WithLabelValues(reason).Inc()
}

// RecordRankingSize observes the number of bets in a ranking request.
func RecordRankingSize(n int) {
	if !active() {
		return
	}
	globalManager.rankingSize.Observe(float64(n))
}

// RecordTopKReturned observes the number of SAFE bets returned by top-K.
func RecordTopKReturned(n int) {
	if !active() {
		return
	}
	globalManager.topKReturned.Observe(float64(n))
}

// UpdateDatasetRecords sets the loaded dataset size.
func UpdateDatasetRecords(count int) {
	if !active() {
		return
	}
	globalManager.datasetRecords.Set(float64(count))
}

// RecordLookup counts a dataset lookup as a hit or a miss.
func RecordLookup(found bool) {
	if !active() {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	globalManager.lookups.WithLabelValues(result).Inc()
}

// RecordRepositoryQueryLatency records dataset lookup latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	if !active() {
		return
	}
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordEnrichRequest counts an upstream profile lookup by outcome
// (ok, not_found, error).
func RecordEnrichRequest(outcome string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.enrichRequests.WithLabelValues(outcome).Inc()
	globalManager.enrichLatency.Observe(latencyMs)
}

// RecordEnrichCacheHit counts a profile served from memory.
func RecordEnrichCacheHit() {
	if !active() {
		return
	}
	globalManager.enrichCacheHits.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !active() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !active() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !active() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !active() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !active() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !active() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !active() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !active() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often gauge-style metrics should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
