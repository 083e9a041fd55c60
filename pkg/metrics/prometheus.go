// Package metrics provides Prometheus metrics for the team balancer.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stages at which score totals are published.
const (
	StageInitial  = "initial"
	StageBalanced = "balanced"
	StageFinal    = "final"
)

// Run outcomes.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Manager manages all Prometheus metrics for the team balancer.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	runBuckets     []float64
	registry       prometheus.Registerer

	// Optimizer Metrics
	optimizerPasses *prometheus.CounterVec
	optimizerSwaps  *prometheus.CounterVec
	rateTrials      *prometheus.CounterVec

	// Run Metrics
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	poolSize      prometheus.Gauge
	teamCount     prometheus.Gauge
	seedingTotal  *prometheus.GaugeVec
	timezoneTotal *prometheus.GaugeVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	// Buckets are in milliseconds; run buckets span a test pool up to a few
	// thousand competitors.
	m := &Manager{
		namespace:      "teambalance",
		subsystem:      "engine",
		latencyBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		runBuckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		registry:       prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.optimizerPasses = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "optimizer_passes_total",
			Help:      "Total number of full passes over all team pairs",
		},
		[]string{"objective"},
	)

	m.optimizerSwaps = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "optimizer_swaps_total",
			Help:      "Total number of committed member swaps",
		},
		[]string{"objective"},
	)

	m.rateTrials = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rate_trials_total",
			Help:      "Total number of tolerance rate trials by outcome",
		},
		[]string{"outcome"},
	)

	m.runs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of balancing runs by status",
		},
		[]string{"status"},
	)

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Duration of a full balancing run in milliseconds",
		Buckets:   m.runBuckets,
	})

	m.poolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_size",
		Help:      "Number of competitors in the last run",
	})

	m.teamCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "team_count",
		Help:      "Number of teams in the last run",
	})

	m.seedingTotal = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "seeding_score_total",
			Help:      "Sum of team seeding scores of the last run by stage",
		},
		[]string{"stage"},
	)

	m.timezoneTotal = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "timezone_score_total",
			Help:      "Sum of team time zone scores of the last run by stage",
		},
		[]string{"stage"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.latencyBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.latencyBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Optimizer Metrics Functions.

// RecordOptimizerPass increments the pass counter for an objective.
func RecordOptimizerPass(objective string) {
	globalManager.optimizerPasses.WithLabelValues(objective).Inc()
}

// RecordOptimizerSwaps adds committed swaps for an objective.
func RecordOptimizerSwaps(objective string, swaps int) {
	if swaps > 0 {
		globalManager.optimizerSwaps.WithLabelValues(objective).Add(float64(swaps))
	}
}

// RecordRateTrial increments the rate trial counter by outcome.
func RecordRateTrial(accepted bool) {
	globalManager.rateTrials.WithLabelValues(strconv.FormatBool(accepted)).Inc()
}

// Run Metrics Functions.

// RecordRun records a finished run with its status and duration.
func RecordRun(status string, durationMs float64) {
	globalManager.runs.WithLabelValues(status).Inc()
	globalManager.runDuration.Observe(durationMs)
}

// UpdatePoolShape sets the pool and team count gauges.
func UpdatePoolShape(poolSize, teamCount int) {
	globalManager.poolSize.Set(float64(poolSize))
	globalManager.teamCount.Set(float64(teamCount))
}

// UpdateTotals publishes the score totals for a stage.
func UpdateTotals(stage string, seeding, timezone float64) error {
	switch stage {
	case StageInitial, StageBalanced, StageFinal:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStage, stage)
	}
	globalManager.seedingTotal.WithLabelValues(stage).Set(seeding)
	globalManager.timezoneTotal.WithLabelValues(stage).Set(timezone)
	return nil
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
