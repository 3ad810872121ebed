package providers

import (
	"mediawall/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(namespace string)
	IncCacheMisses(namespace string)
	ObservePersistenceDuration(ledger string, duration time.Duration)
	SetLedgerEntries(ledger string, count int)
	AddBytesServed(class string, n int64)
	IncSuggestionOutcome(outcome string)
}

// ActiveClientsCounter reports how many clients are currently throttled.
type ActiveClientsCounter interface {
	Len() int
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration *prometheus.HistogramVec
	ledgerEntries       *prometheus.GaugeVec
	bytesServed         *prometheus.CounterVec
	suggestionOutcomes  *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(namespace string) {
	m.cacheHits.WithLabelValues(namespace).Inc()
}

func (m *MetricsProvider) IncCacheMisses(namespace string) {
	m.cacheMisses.WithLabelValues(namespace).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(ledger string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(ledger).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetLedgerEntries(ledger string, count int) {
	m.ledgerEntries.WithLabelValues(ledger).Set(float64(count))
}

func (m *MetricsProvider) AddBytesServed(class string, n int64) {
	if n <= 0 {
		return
	}
	m.bytesServed.WithLabelValues(class).Add(float64(n))
}

func (m *MetricsProvider) IncSuggestionOutcome(outcome string) {
	m.suggestionOutcomes.WithLabelValues(outcome).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, clients ActiveClientsCounter) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediawall_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediawall_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediawall_cache_hits_total",
			Help: "Total number of response cache hits",
		}, []string{"namespace"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediawall_cache_misses_total",
			Help: "Total number of response cache misses",
		}, []string{"namespace"}),

		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediawall_ledger_write_duration_seconds",
			Help:    "Duration of ledger writes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"ledger"}),

		ledgerEntries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mediawall_ledger_entries",
			Help: "Number of live entries per ledger",
		}, []string{"ledger"}),

		bytesServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediawall_bytes_served_total",
			Help: "Bytes streamed from disk per asset class",
		}, []string{"class"}),

		suggestionOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediawall_suggestion_submissions_total",
			Help: "Suggestion submissions by outcome",
		}, []string{"outcome"}),
	}

	if clients != nil {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "mediawall_cooldown_clients",
			Help: "Clients currently inside the suggestion cooldown",
		}, func() float64 {
			return float64(clients.Len())
		})
	}

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits(_ string)                                {}
func (n *noopMetrics) IncCacheMisses(_ string)                              {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetLedgerEntries(_ string, _ int)                     {}
func (n *noopMetrics) AddBytesServed(_ string, _ int64)                     {}
func (n *noopMetrics) IncSuggestionOutcome(_ string)                        {}
