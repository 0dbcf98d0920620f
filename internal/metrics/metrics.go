package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Retrieval outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docchat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "docchat_http_request_duration_seconds",
			Help: "Duration of HTTP requests",
		},
		[]string{"route", "method"},
	)
	RetrievalCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docchat_retrieval_calls_total",
			Help: "Total number of retrieval lookups by outcome",
		},
		[]string{"outcome"},
	)
	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "docchat_retrieval_duration_seconds",
			Help: "Duration of retrieval service calls",
		},
	)
	LLMCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docchat_llm_calls_total",
			Help: "Total number of LLM generation calls",
		},
		[]string{"provider", "outcome"},
	)
	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docchat_llm_duration_seconds",
			Help:    "Duration of LLM generation calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider"},
	)
	IngestRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docchat_ingest_requests_total",
			Help: "Total number of knowledge base refresh requests",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(RetrievalCallsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(LLMCallsTotal)
	prometheus.MustRegister(LLMDuration)
	prometheus.MustRegister(IngestRequestsTotal)
}

// ObserveRetrieval records one retrieval lookup.
func ObserveRetrieval(outcome string, d time.Duration) {
	RetrievalCallsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCacheHit {
		RetrievalDuration.Observe(d.Seconds())
	}
}

// ObserveLLM records one generation call.
func ObserveLLM(provider string, err error, d time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	LLMCallsTotal.WithLabelValues(provider, outcome).Inc()
	LLMDuration.WithLabelValues(provider).Observe(d.Seconds())
}
