// Package metrics provides Prometheus metrics for the feedview service.
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

// Manager manages all Prometheus metrics for the feedview service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Collection loads
	collectionLoads   *prometheus.CounterVec
	collectionSize    *prometheus.GaugeVec
	collectionLoadDur *prometheus.HistogramVec
	scoringLatency    prometheus.Histogram

	// Viewer interactions
	sortSelections *prometheus.CounterVec
	tabSelections  *prometheus.CounterVec
	imageCopies    prometheus.Counter

	// Image proxy
	proxyRequests        *prometheus.CounterVec
	proxyCacheLookups    *prometheus.CounterVec
	proxyUpstreamLatency prometheus.Histogram
	proxyBytes           prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
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

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "feedview",
		subsystem:        "viewer",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool {
	return m.enabled
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

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.collectionLoads = auto.NewCounterVec(
		m.counterOpts("collection_loads_total", "Collection loads by collection and outcome"),
		[]string{"collection", "status"},
	)
	m.collectionSize = auto.NewGaugeVec(
		m.gaugeOpts("collection_items", "Number of items currently held per collection"),
		[]string{"collection"},
	)
	m.collectionLoadDur = auto.NewHistogramVec(
		m.histogramOpts("collection_load_duration_milliseconds", "Time to fetch and decode a collection", m.histogramBuckets),
		[]string{"collection"},
	)
	m.scoringLatency = auto.NewHistogram(
		m.histogramOpts("scoring_latency_milliseconds", "Time to score a posts collection", m.histogramBuckets),
	)

	m.sortSelections = auto.NewCounterVec(
		m.counterOpts("sort_selections_total", "Ordering selections by order"),
		[]string{"order"},
	)
	m.tabSelections = auto.NewCounterVec(
		m.counterOpts("tab_selections_total", "Tab selections by tab"),
		[]string{"tab"},
	)
	m.imageCopies = auto.NewCounter(
		m.counterOpts("image_copies_total", "Image URLs copied from the detail view"),
	)

	m.proxyRequests = auto.NewCounterVec(
		m.counterOpts("proxy_requests_total", "Image proxy requests by outcome"),
		[]string{"status"},
	)
	m.proxyCacheLookups = auto.NewCounterVec(
		m.counterOpts("proxy_cache_lookups_total", "Image proxy cache lookups by result"),
		[]string{"result"},
	)
	m.proxyUpstreamLatency = auto.NewHistogram(
		m.histogramOpts("proxy_upstream_latency_milliseconds", "Latency of upstream image fetches", m.histogramBuckets),
	)
	m.proxyBytes = auto.NewCounter(
		m.counterOpts("proxy_bytes_total", "Bytes relayed by the image proxy"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordCollectionLoad counts a finished load; status is "ok", "empty" or "error".
func RecordCollectionLoad(collection, status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.collectionLoads.WithLabelValues(collection, status).Inc()
}

// UpdateCollectionSize sets the number of items held for a collection.
func UpdateCollectionSize(collection string, size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.collectionSize.WithLabelValues(collection).Set(float64(size))
}

// RecordCollectionLoadDuration records fetch and decode time in milliseconds.
func RecordCollectionLoadDuration(collection string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.collectionLoadDur.WithLabelValues(collection).Observe(latencyMs)
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordSortSelection counts an ordering selection.
func RecordSortSelection(order string) {
	if !globalManager.enabled {
		return
	}
	globalManager.sortSelections.WithLabelValues(order).Inc()
}

// RecordTabSelection counts a tab selection.
func RecordTabSelection(tab string) {
	if !globalManager.enabled {
		return
	}
	globalManager.tabSelections.WithLabelValues(tab).Inc()
}

// RecordImageCopy counts a copied image URL.
func RecordImageCopy() {
	if !globalManager.enabled {
		return
	}
	globalManager.imageCopies.Inc()
}

// RecordProxyRequest counts an image proxy request by outcome.
func RecordProxyRequest(status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.proxyRequests.WithLabelValues(status).Inc()
}

// RecordProxyCacheLookup counts a cache lookup; result is "hit" or "miss".
func RecordProxyCacheLookup(result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.proxyCacheLookups.WithLabelValues(result).Inc()
}

// RecordProxyUpstreamLatency records upstream fetch latency in milliseconds.
func RecordProxyUpstreamLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.proxyUpstreamLatency.Observe(latencyMs)
}

// AddProxyBytes adds relayed bytes.
func AddProxyBytes(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.proxyBytes.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
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

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before anything records or serves
// metrics.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval is how often callers should refresh the system gauges.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
