package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ProviderMetricsCollector struct {
	Requests *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

var (
	globalCollector *ProviderMetricsCollector
	collectorOnce   sync.Once
)

func getCollector() *ProviderMetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = &ProviderMetricsCollector{
			Requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_provider_requests_total",
					Help: "The total number of weather provider requests",
				},
				[]string{"provider", "operation"},
			),
			Failures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_provider_failures_total",
					Help: "The total number of failed weather provider requests",
				},
				[]string{"provider", "operation", "error_type"},
			),
			Latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "weather_provider_duration_seconds",
					Help:    "Weather provider request duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider", "operation"},
			),
		}
	})
	return globalCollector
}

// ProviderMetrics tracks request outcomes for one provider, both in
// Prometheus and in local counters for introspection.
type ProviderMetrics struct {
	provider  string
	requests  int64
	failures  int64
	collector *ProviderMetricsCollector
	mu        sync.RWMutex
}

func NewProviderMetrics(provider string) *ProviderMetrics {
	return &ProviderMetrics{
		provider:  provider,
		collector: getCollector(),
	}
}

func (m *ProviderMetrics) RecordRequest(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	m.collector.Requests.WithLabelValues(m.provider, operation).Inc()
}

func (m *ProviderMetrics) RecordFailure(operation, errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures++
	m.collector.Failures.WithLabelValues(m.provider, operation, errorType).Inc()
}

func (m *ProviderMetrics) RecordLatency(operation string, seconds float64) {
	m.collector.Latency.WithLabelValues(m.provider, operation).Observe(seconds)
}

func (m *ProviderMetrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var failureRatio float64
	if m.requests > 0 {
		failureRatio = float64(m.failures) / float64(m.requests)
	}

	return map[string]interface{}{
		"provider":      m.provider,
		"requests":      m.requests,
		"failures":      m.failures,
		"failure_ratio": failureRatio,
	}
}
