// Package metrics provides Prometheus metrics for the mindset tracker service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets are tuned for store round-trips and request handling (ms).
var latencyBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500} //nolint:gochecknoglobals // constant bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Assessment workflow
	ratingsWritten    *prometheus.CounterVec
	auditEntries      *prometheus.CounterVec
	auditFailures     prometheus.Counter
	previousLookupErr prometheus.Counter

	// Consensus
	consensusComputed prometheus.Counter
	consensusAbsent   prometheus.Counter

	// Roster
	totalParticipants    prometheus.Gauge
	participantsImported prometheus.Counter
	importBatches        prometheus.Counter
	fanoutItems          *prometheus.CounterVec

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "mindset",
		subsystem:        "tracker",
		histogramBuckets: latencyBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.ratingsWritten = auto.NewCounterVec(
		m.counterOpts("ratings_written_total", "Ratings written, by workflow action (create, update, delete)"),
		[]string{"action"},
	)
	m.auditEntries = auto.NewCounterVec(
		m.counterOpts("audit_entries_total", "Audit entries appended, by action"),
		[]string{"action"},
	)
	m.auditFailures = auto.NewCounter(
		m.counterOpts("audit_failures_total", "Audit appends that failed after the primary write succeeded"),
	)
	m.previousLookupErr = auto.NewCounter(
		m.counterOpts("previous_lookup_errors_total", "Previous-value lookups that failed and were treated as unknown"),
	)

	m.consensusComputed = auto.NewCounter(
		m.counterOpts("consensus_computed_total", "Consensus values computed from at least one rating"),
	)
	m.consensusAbsent = auto.NewCounter(
		m.counterOpts("consensus_absent_total", "Consensus requests with no ratings to fold"),
	)

	m.totalParticipants = auto.NewGauge(
		m.gaugeOpts("participants", "Participants seen on the last roster scan"),
	)
	m.participantsImported = auto.NewCounter(
		m.counterOpts("participants_imported_total", "Participants written by bulk import"),
	)
	m.importBatches = auto.NewCounter(
		m.counterOpts("import_batches_total", "Bulk import batches committed"),
	)
	m.fanoutItems = auto.NewCounterVec(
		m.counterOpts("fanout_items_total", "Org unit rename fan-out items, by outcome"),
		[]string{"outcome"},
	)

	m.storeLatency = auto.NewHistogramVec(
		m.histogramOpts("store_latency_milliseconds", "Record store operation latency in milliseconds"),
		[]string{"op", "table"},
	)
	m.storeErrors = auto.NewCounterVec(
		m.counterOpts("store_errors_total", "Record store operation failures"),
		[]string{"op", "table"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutines", "Number of goroutines"),
	)
}

// Assessment workflow.

// RecordRatingWritten increments the rating write counter for an action.
func RecordRatingWritten(action string) {
	globalManager.ratingsWritten.WithLabelValues(action).Inc()
}

// RecordAuditEntry increments the audit entry counter for an action.
func RecordAuditEntry(action string) {
	globalManager.auditEntries.WithLabelValues(action).Inc()
}

// RecordAuditFailure increments the audit failure counter.
func RecordAuditFailure() {
	globalManager.auditFailures.Inc()
}

// RecordPreviousLookupError increments the previous-value lookup error counter.
func RecordPreviousLookupError() {
	globalManager.previousLookupErr.Inc()
}

// Consensus.

// RecordConsensus records the outcome of a consensus computation.
func RecordConsensus(present bool) {
	if present {
		globalManager.consensusComputed.Inc()
		return
	}
	globalManager.consensusAbsent.Inc()
}

// Roster.

// UpdateTotalParticipants sets the participant gauge.
func UpdateTotalParticipants(count int) {
	globalManager.totalParticipants.Set(float64(count))
}

// RecordImportBatch records a committed import batch of n participants.
func RecordImportBatch(n int) {
	globalManager.importBatches.Inc()
	globalManager.participantsImported.Add(float64(n))
}

// RecordFanoutItem records the outcome ("updated" or "failed") of one fan-out item.
func RecordFanoutItem(outcome string) {
	globalManager.fanoutItems.WithLabelValues(outcome).Inc()
}

// Store.

// RecordStoreLatency records a store operation latency in milliseconds.
func RecordStoreLatency(op, table string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op, table).Observe(latencyMs)
}

// RecordStoreError increments the store error counter.
func RecordStoreError(op, table string) {
	globalManager.storeErrors.WithLabelValues(op, table).Inc()
}

// HTTP.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
