// Package metrics provides Prometheus metrics for the locus engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recording path
	guessesRecorded prometheus.Counter
	guessesRejected prometheus.Counter
	guessesSkipped  prometheus.Counter

	// Backup rotation
	backupsTaken   prometheus.Counter
	backupFailures prometheus.Counter

	// Estimation path
	estimatesServed prometheus.Counter
	estimatesNoData prometheus.Counter
	solverLatency   prometheus.Histogram

	// Store state
	totalGuesses   prometheus.Gauge
	trackedTargets prometheus.Gauge

	// Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPause        prometheus.Histogram

	// HTTP boundary
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "locus",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.guessesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guesses_recorded_total",
		Help:      "Total number of guesses validated and durably appended",
	})

	m.guessesRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guesses_rejected_total",
		Help:      "Total number of guesses rejected by validation",
	})

	m.guessesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guesses_skipped_total",
		Help:      "Total number of guesses skipped because the target already has a perfect guess",
	})

	m.backupsTaken = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backups_taken_total",
		Help:      "Total number of snapshot backups written",
	})

	m.backupFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backup_failures_total",
		Help:      "Total number of snapshot backups that failed (appends unaffected)",
	})

	m.estimatesServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimates_served_total",
		Help:      "Total number of location estimates computed",
	})

	m.estimatesNoData = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "estimates_insufficient_data_total",
		Help:      "Total number of estimate requests with fewer than three guesses",
	})

	m.solverLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_latency_milliseconds",
		Help:      "Histogram of trilateration solver latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.totalGuesses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_guesses",
		Help:      "Total number of guesses in the store across all targets",
	})

	m.trackedTargets = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_targets",
		Help:      "Number of distinct targets with at least one stored guess",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

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
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordGuessRecorded increments the recorded guesses counter.
func RecordGuessRecorded() {
	globalManager.guessesRecorded.Inc()
}

// RecordGuessRejected increments the rejected guesses counter.
func RecordGuessRejected() {
	globalManager.guessesRejected.Inc()
}

// RecordGuessSkipped increments the skipped guesses counter.
func RecordGuessSkipped() {
	globalManager.guessesSkipped.Inc()
}

// RecordBackup increments the backups taken counter.
func RecordBackup() {
	globalManager.backupsTaken.Inc()
}

// RecordBackupFailure increments the backup failures counter.
func RecordBackupFailure() {
	globalManager.backupFailures.Inc()
}

// RecordEstimateServed increments the estimates served counter.
func RecordEstimateServed() {
	globalManager.estimatesServed.Inc()
}

// RecordEstimateNoData increments the insufficient-data counter.
func RecordEstimateNoData() {
	globalManager.estimatesNoData.Inc()
}

// RecordSolverLatency records one solver run's latency.
func RecordSolverLatency(latencyMs float64) {
	globalManager.solverLatency.Observe(latencyMs)
}

// UpdateTotalGuesses sets the total guess count gauge.
func UpdateTotalGuesses(count int) {
	globalManager.totalGuesses.Set(float64(count))
}

// UpdateTrackedTargets sets the tracked targets gauge.
func UpdateTrackedTargets(count int) {
	globalManager.trackedTargets.Set(float64(count))
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPause.Observe(pauseMs)
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
