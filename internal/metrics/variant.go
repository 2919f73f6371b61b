package metrics

import "github.com/prometheus/client_golang/prometheus"

// Variant expansion Prometheus metrics.
var (
	VariantExpansionSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "serbsearch",
			Name:      "variant_expansion_size",
			Help:      "Number of variants generated per word",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	VariantExpansionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "serbsearch",
			Name:      "variant_expansion_duration_seconds",
			Help:      "Time spent expanding the words of one query",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	VariantCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "serbsearch",
			Name:      "variant_cache_total",
			Help:      "Variant cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "serbsearch",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"mode"}, // "terms" / "sentence" / "exact"
	)
)

var variantMetricsRegistered bool

// RegisterVariantMetrics registers Prometheus variant metrics. Must be called once from main.
func RegisterVariantMetrics() {
	if variantMetricsRegistered {
		return
	}
	prometheus.MustRegister(VariantExpansionSize)
	prometheus.MustRegister(VariantExpansionDuration)
	prometheus.MustRegister(VariantCacheTotal)
	prometheus.MustRegister(SearchQueriesTotal)
	variantMetricsRegistered = true
}
