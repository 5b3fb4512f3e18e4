// Package metrics provides Prometheus metrics for the activity signup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Directory
	signups        *prometheus.CounterVec
	unregisters    *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	activities     prometheus.Gauge
	participants   prometheus.Gauge
	rosterSize     *prometheus.GaugeVec
	directoryReset prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// Change feed
	feedQueueSize       prometheus.Gauge
	feedQueueCapacity   prometheus.Gauge
	feedEnqueued        prometheus.Counter
	feedDropped         *prometheus.CounterVec
	feedProcessed       prometheus.Counter
	feedWorkerCount     prometheus.Gauge
	feedProcessingDelay prometheus.Histogram
	errorRateByComp     *prometheus.CounterVec

	// System
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
		namespace:        "mergington",
		subsystem:        "activities",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.signups = m.counterVec("signups_total", "Successful signups by activity", "activity")
	m.unregisters = m.counterVec("unregisters_total", "Successful unregisters by activity", "activity")
	m.rejected = m.counterVec("rejected_total", "Rejected roster operations by operation and reason", "operation", "reason")
	m.activities = m.gauge("activities", "Number of activities in the directory")
	m.participants = m.gauge("participants", "Roster entries across all activities")
	m.rosterSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "roster_size", Help: "Current roster size by activity",
	}, []string{"activity"})
	m.directoryReset = m.counter("directory_resets_total", "Number of times the directory was restored to its seed")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint and method",
		"endpoint", "method", "error_type")
	m.errorRateByComp = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.feedQueueSize = m.gauge("feed_queue_size", "Changes waiting in the feed queue")
	m.feedQueueCapacity = m.gauge("feed_queue_capacity", "Capacity of the feed queue")
	m.feedEnqueued = m.counter("feed_enqueued_total", "Changes accepted by the feed queue")
	m.feedDropped = m.counterVec("feed_dropped_total", "Changes the feed queue refused", "reason")
	m.feedProcessed = m.counter("feed_processed_total", "Changes recorded into history by feed workers")
	m.feedWorkerCount = m.gauge("feed_worker_count", "Running feed workers")
	m.feedProcessingDelay = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "feed_delay_milliseconds",
		Help:    "Time between a roster change and its recording in history",
		Buckets: m.histogramBuckets,
	})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "system_gc_pause_time_milliseconds",
		Help:    "GC pause time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordSignup counts a successful signup.
func RecordSignup(activity string) { globalManager.signups.WithLabelValues(activity).Inc() }

// RecordUnregister counts a successful unregister.
func RecordUnregister(activity string) { globalManager.unregisters.WithLabelValues(activity).Inc() }

// RecordRejected counts a roster operation refused for reason.
func RecordRejected(operation, reason string) {
	globalManager.rejected.WithLabelValues(operation, reason).Inc()
}

// UpdateDirectorySize sets the activity and participant gauges.
func UpdateDirectorySize(activities, participants int) {
	globalManager.activities.Set(float64(activities))
	globalManager.participants.Set(float64(participants))
}

// UpdateRosterSize sets the roster gauge for one activity.
func UpdateRosterSize(activity string, size int) {
	globalManager.rosterSize.WithLabelValues(activity).Set(float64(size))
}

// RecordDirectoryReset counts a restore to seed.
func RecordDirectoryReset() { globalManager.directoryReset.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComp.WithLabelValues(component, errorType).Inc()
}

// UpdateFeedQueueSize sets the current feed backlog.
func UpdateFeedQueueSize(size int) { globalManager.feedQueueSize.Set(float64(size)) }

// UpdateFeedQueueCapacity sets the feed queue capacity.
func UpdateFeedQueueCapacity(capacity int) { globalManager.feedQueueCapacity.Set(float64(capacity)) }

// RecordFeedEnqueue counts a change accepted by the feed queue.
func RecordFeedEnqueue() { globalManager.feedEnqueued.Inc() }

// RecordFeedDrop counts a change the feed queue refused.
func RecordFeedDrop(reason string) { globalManager.feedDropped.WithLabelValues(reason).Inc() }

// RecordFeedProcessed counts a change recorded into history and its delay.
func RecordFeedProcessed(delayMs float64) {
	globalManager.feedProcessed.Inc()
	globalManager.feedProcessingDelay.Observe(delayMs)
}

// UpdateFeedWorkerCount sets the number of running feed workers.
func UpdateFeedWorkerCount(count int) { globalManager.feedWorkerCount.Set(float64(count)) }

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
