// Package metrics provides Prometheus metrics for the pulse dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Query metrics - what the service exists to do
	metricsQueries  prometheus.Counter
	aiQueries       prometheus.Counter
	degradedQueries prometheus.Counter
	rowsProduced    prometheus.Gauge

	// Reconciliation quality
	meetingGroupsMatched   prometheus.Counter
	meetingGroupsOrphaned  prometheus.Counter
	meetingRecordsExcluded prometheus.Counter
	sheetRowsDropped       prometheus.Counter

	// Upstream health
	upstreamFailures *prometheus.CounterVec
	vendorLatency    prometheus.Histogram
	llmLatency       prometheus.Histogram

	// Cache behaviour
	cacheRefreshes prometheus.Counter
	cacheHits      prometheus.Counter

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pulse",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.metricsQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "metrics_queries_total",
		Help:      "Total number of metrics queries served",
	})

	m.aiQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ai_queries_total",
		Help:      "Total number of natural-language queries served",
	})

	m.degradedQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degraded_queries_total",
		Help:      "Queries answered with vendor-only data because the meeting source failed",
	})

	m.rowsProduced = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_produced",
		Help:      "Row count of the most recent metrics query",
	})

	m.meetingGroupsMatched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "meeting_groups_matched_total",
		Help:      "Meeting-record groups matched to a vendor user by name",
	})

	m.meetingGroupsOrphaned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "meeting_groups_orphaned_total",
		Help:      "Meeting-record groups that matched no vendor user",
	})

	m.meetingRecordsExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "meeting_records_excluded_total",
		Help:      "Meeting records skipped by the lead-source exclusion rule",
	})

	m.sheetRowsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sheet_rows_dropped_total",
		Help:      "Spreadsheet rows dropped for missing fields or unparseable timestamps",
	})

	m.upstreamFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_failures_total",
			Help:      "Upstream call failures by source",
		},
		[]string{"source"},
	)

	m.vendorLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "vendor_request_latency_milliseconds",
		Help:      "Latency of vendor metrics API requests in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.llmLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_request_latency_milliseconds",
		Help:      "Latency of LLM completions in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_refreshes_total",
		Help:      "Read-through cache refreshes",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Read-through cache hits",
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

// RecordMetricsQuery increments the metrics query counter.
func RecordMetricsQuery() { globalManager.metricsQueries.Inc() }

// RecordAIQuery increments the natural-language query counter.
func RecordAIQuery() { globalManager.aiQueries.Inc() }

// RecordDegradedQuery increments the degraded query counter.
func RecordDegradedQuery() { globalManager.degradedQueries.Inc() }

// UpdateRowsProduced sets the row count of the latest query.
func UpdateRowsProduced(count int) { globalManager.rowsProduced.Set(float64(count)) }

// RecordMeetingGroupsMatched adds to the matched group counter.
func RecordMeetingGroupsMatched(n int) {
	globalManager.meetingGroupsMatched.Add(float64(n))
}

// RecordMeetingGroupsOrphaned adds to the orphaned group counter.
func RecordMeetingGroupsOrphaned(n int) {
	globalManager.meetingGroupsOrphaned.Add(float64(n))
}

// RecordMeetingRecordsExcluded adds to the excluded record counter.
func RecordMeetingRecordsExcluded(n int) {
	globalManager.meetingRecordsExcluded.Add(float64(n))
}

// RecordSheetRowDropped increments the dropped-row counter.
func RecordSheetRowDropped() { globalManager.sheetRowsDropped.Inc() }

// RecordUpstreamFailure increments the failure counter for a source
// ("vendor", "meetings", or "llm").
func RecordUpstreamFailure(source string) {
	globalManager.upstreamFailures.WithLabelValues(source).Inc()
}

// RecordVendorLatency records a vendor request latency in milliseconds.
func RecordVendorLatency(latencyMs float64) { globalManager.vendorLatency.Observe(latencyMs) }

// RecordLLMLatency records an LLM completion latency in milliseconds.
func RecordLLMLatency(latencyMs float64) { globalManager.llmLatency.Observe(latencyMs) }

// RecordCacheRefresh increments the cache refresh counter.
func RecordCacheRefresh() { globalManager.cacheRefreshes.Inc() }

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

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

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
