// Package metrics provides Prometheus metrics for the club scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics - one scoring run is the unit of work.
	runsTotal   prometheus.Counter
	runsFailed  prometheus.Counter
	runDuration prometheus.Histogram
	clubsScored prometheus.Gauge
	lastRunUnix prometheus.Gauge

	// Ingest metrics.
	surveyRows       prometheus.Counter
	eventRows        prometheus.Counter
	chatFilesParsed  prometheus.Counter
	chatFileFailures prometheus.Counter
	coercionWarnings prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets the Prometheus registerer metrics register on.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithHistogramBuckets overrides the default latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry so the default Go collectors stay out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clubpulse",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of completed scoring runs",
	})
	m.runsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_failed_total",
		Help:      "Total number of scoring runs aborted by an error",
	})
	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Histogram of end-to-end scoring run duration in seconds",
		Buckets:   m.histogramBuckets,
	})
	m.clubsScored = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clubs_scored",
		Help:      "Number of clubs in the latest composite table",
	})
	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the latest completed run",
	})

	m.surveyRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "survey_rows_total",
		Help:      "Total survey rows ingested",
	})
	m.eventRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_rows_total",
		Help:      "Total event-log rows ingested",
	})
	m.chatFilesParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chat_files_parsed_total",
		Help:      "Total chat transcript files processed",
	})
	m.chatFileFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chat_file_failures_total",
		Help:      "Total chat files degraded to zero aggregates (isolated failures)",
	})
	m.coercionWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "numeric_coercion_warnings_total",
		Help:      "Total metric cells excluded from means as unparseable",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	return m
}

// GetRegistry returns the gatherer backing the global manager, for serving.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

func RecordRunCompleted(durationSeconds float64, clubs int) {
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(durationSeconds)
	globalManager.clubsScored.Set(float64(clubs))
}

func RecordRunFailed() {
	globalManager.runsFailed.Inc()
}

func UpdateLastRunTime(unix int64) {
	globalManager.lastRunUnix.Set(float64(unix))
}

func RecordSurveyRows(n int) {
	globalManager.surveyRows.Add(float64(n))
}

func RecordEventRows(n int) {
	globalManager.eventRows.Add(float64(n))
}

func RecordChatFileParsed() {
	globalManager.chatFilesParsed.Inc()
}

func RecordChatFileFailure() {
	globalManager.chatFileFailures.Inc()
}

func RecordCoercionWarning() {
	globalManager.coercionWarnings.Inc()
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
