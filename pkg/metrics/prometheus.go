package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal     prometheus.Counter
	CacheHits         prometheus.Counter
	CoalescedRequests prometheus.Counter
	RoutesPersisted   prometheus.Counter
	ProviderFailures  *prometheus.CounterVec
	ProviderResults   *prometheus.CounterVec
	ProviderLatency   *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics. Construction registers
// nothing; call Register before serving /metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of search pipeline executions",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_hits_total",
			Help:      "The total number of searches answered from the dedup cache",
		}),
		CoalescedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_coalesced_total",
			Help:      "The total number of searches that joined an in-flight execution",
		}),
		RoutesPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_persisted_total",
			Help:      "The total number of routes handed to the route store",
		}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "The total number of failed provider calls",
		}, []string{"provider"}),
		ProviderResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_results_total",
			Help:      "The total number of route candidates returned by providers",
		}, []string{"provider"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Time taken by provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}

// Register registers all metrics with the given registerer
func (m *Metrics) Register(r prometheus.Registerer) {
	r.MustRegister(
		m.SearchesTotal,
		m.CacheHits,
		m.CoalescedRequests,
		m.RoutesPersisted,
		m.ProviderFailures,
		m.ProviderResults,
		m.ProviderLatency,
	)
}
