package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the engine exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	httpBuckets      []float64
	registry         prometheus.Registerer

	// Evaluation runs
	runsTotal    prometheus.Counter
	runFailures  *prometheus.CounterVec
	runDuration  prometheus.Histogram
	lastRunUnix  prometheus.Gauge
	recordsTotal prometheus.Counter

	// Data quality
	unrecognizedPositions prometheus.Counter
	dataIssues            *prometheus.CounterVec

	// Outputs
	categoryAssignments *prometheus.CounterVec
	groupSize           *prometheus.GaugeVec

	// Storage
	datasetRows        *prometheus.CounterVec
	repositoryPlayers  prometheus.Gauge
	repositoryPublish  prometheus.Counter
	repositoryQueryLat prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps Go runtime collectors out of /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "secondary",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		httpBuckets:      []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of evaluation runs started",
	})

	m.runFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_failures_total",
		Help:      "Evaluation runs aborted with a fatal error, by reason",
	}, []string{"reason"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a complete evaluation run",
		Buckets:   m.histogramBuckets,
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last successful evaluation run",
	})

	m.recordsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_evaluated_total",
		Help:      "Player records that produced a result row",
	})

	m.unrecognizedPositions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unrecognized_positions_total",
		Help:      "Records whose position did not map to a known group",
	})

	m.dataIssues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "data_issues_total",
		Help:      "Data quality issues attached to result rows, by issue code",
	}, []string{"issue"})

	m.categoryAssignments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "category_assignments_total",
		Help:      "Category labels assigned, by policy and label",
	}, []string{"policy", "category"})

	m.groupSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "position_group_size",
		Help:      "Players in each position group in the last run",
	}, []string{"position"})

	m.datasetRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows_written_total",
		Help:      "Rows written to the dataset store, by dataset",
	}, []string{"dataset"})

	m.repositoryPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_players",
		Help:      "Players in the published ranking snapshot",
	})

	m.repositoryPublish = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_snapshots_total",
		Help:      "Ranking snapshots published",
	})

	m.repositoryQueryLat = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Latency of ranking snapshot queries in milliseconds",
		Buckets:   m.httpBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.httpBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Evaluation run functions.

// RecordRunStarted increments the run counter.
func RecordRunStarted() {
	globalManager.runsTotal.Inc()
}

// RecordRunFailure counts an aborted run.
func RecordRunFailure(reason string) {
	globalManager.runFailures.WithLabelValues(reason).Inc()
}

// RecordRunCompleted observes the run duration and stamps the completion time.
func RecordRunCompleted(d time.Duration) {
	globalManager.runDuration.Observe(d.Seconds())
	globalManager.lastRunUnix.Set(float64(time.Now().Unix()))
}

// RecordRecordsEvaluated adds n evaluated records.
func RecordRecordsEvaluated(n int) {
	globalManager.recordsTotal.Add(float64(n))
}

// Data quality functions.

// RecordUnrecognizedPosition counts one unmapped position.
func RecordUnrecognizedPosition() {
	globalManager.unrecognizedPositions.Inc()
}

// RecordDataIssue counts one issue code on a result row.
func RecordDataIssue(issue string) {
	globalManager.dataIssues.WithLabelValues(issue).Inc()
}

// Output functions.

// RecordCategoryAssignment counts one label assignment.
func RecordCategoryAssignment(policy, category string) {
	globalManager.categoryAssignments.WithLabelValues(policy, category).Inc()
}

// UpdatePositionGroupSize sets the size of a position group.
func UpdatePositionGroupSize(position string, size int) {
	globalManager.groupSize.WithLabelValues(position).Set(float64(size))
}

// RecordDatasetRows adds n written rows for dataset.
func RecordDatasetRows(dataset string, n int) {
	globalManager.datasetRows.WithLabelValues(dataset).Add(float64(n))
}

// Repository functions.

// RecordSnapshotPublished counts a snapshot and sets its player count.
func RecordSnapshotPublished(players int) {
	globalManager.repositoryPublish.Inc()
	globalManager.repositoryPlayers.Set(float64(players))
}

// RecordRepositoryQueryLatency records snapshot query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLat.Observe(latencyMs)
}

// HTTP functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
