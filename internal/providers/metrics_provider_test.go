package providers

import (
	"mediawall/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClients int

func (f fixedClients) Len() int { return int(f) }

func useTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prevRegisterer, prevGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevRegisterer
		prometheus.DefaultGatherer = prevGatherer
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, fixedClients(0))
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits("texts")
	m.IncCacheMisses("texts")
	m.ObservePersistenceDuration("likes", time.Millisecond)
	m.SetLedgerEntries("likes", 10)
	m.AddBytesServed("video", 1024)
	m.IncSuggestionOutcome("accepted")
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, fixedClients(0))
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_RecordsValues(t *testing.T) {
	reg := useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, fixedClients(3))
	mp := m.(*MetricsProvider)

	m.IncRequestsTotal("/api/likes", 201)
	m.IncRequestsTotal("/api/likes", 204)
	m.IncRequestsTotal("/api/likes", 404)
	m.ObserveRequestDuration("/api/likes", 5*time.Millisecond)
	m.IncCacheHits("texts")
	m.IncCacheMisses("texts")
	m.ObservePersistenceDuration("likes", 10*time.Millisecond)
	m.SetLedgerEntries("likes", 42)
	m.AddBytesServed("video", 2048)
	m.AddBytesServed("video", 0)
	m.IncSuggestionOutcome("duplicate")

	assert.Equal(t, 2.0, promtest.ToFloat64(mp.requestsTotal.WithLabelValues("/api/likes", "2xx")))
	assert.Equal(t, 1.0, promtest.ToFloat64(mp.requestsTotal.WithLabelValues("/api/likes", "4xx")))
	assert.Equal(t, 42.0, promtest.ToFloat64(mp.ledgerEntries.WithLabelValues("likes")))
	assert.Equal(t, 2048.0, promtest.ToFloat64(mp.bytesServed.WithLabelValues("video")))
	assert.Equal(t, 1.0, promtest.ToFloat64(mp.suggestionOutcomes.WithLabelValues("duplicate")))

	count, err := promtest.GatherAndCount(reg, "mediawall_cooldown_clients")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{206, "2xx"},
		{304, "3xx"},
		{400, "4xx"},
		{416, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
