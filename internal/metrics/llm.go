package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat-completion Prometheus metrics, one set for all LLM-backed
// components (intent analyzer, narrator, translator).
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matzip",
			Name:      "llm_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"component", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "matzip",
			Name:      "llm_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"component", "model"},
	)

	LLMRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matzip",
			Name:      "llm_retries_total",
			Help:      "Total chat completion retry attempts after a failure",
		},
		[]string{"component"},
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers Prometheus LLM metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMRetriesTotal)
	llmMetricsRegistered = true
}
