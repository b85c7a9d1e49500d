package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matzip",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"}, // "ok" / "degraded" / "error"
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matzip",
			Name:      "search_stage_duration_seconds",
			Help:      "Duration of one search pipeline stage in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"}, // "intent" / "retrieve" / "rerank" / "translate" / "narrate"
	)

	SearchPoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matzip",
			Name:      "search_pool_size",
			Help:      "Candidate pool size after the hybrid union",
			Buckets:   []float64{5, 10, 20, 40, 60, 80, 100, 120},
		},
	)

	RerankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matzip",
			Name:      "rerank_requests_total",
			Help:      "Total number of cross-encoder rerank requests",
		},
		[]string{"status"},
	)

	RerankRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "matzip",
			Name:      "rerank_request_duration_seconds",
			Help:      "Cross-encoder rerank request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(SearchPoolSize)
	prometheus.MustRegister(RerankRequestsTotal)
	prometheus.MustRegister(RerankRequestDuration)
	searchMetricsRegistered = true
}
