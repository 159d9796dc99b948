package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	SourceQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragd",
			Name:      "source_queries_total",
			Help:      "Per-source retrieval queries by mode and outcome",
		},
		[]string{"source", "mode", "status"}, // mode: "semantic" / "exact"
	)

	SourceQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragd",
			Name:      "source_query_duration_seconds",
			Help:      "Per-source retrieval query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"source", "mode"},
	)

	RetrievalFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragd",
			Name:      "retrieval_fallbacks_total",
			Help:      "Exact-substring queries that fell back to semantic retrieval",
		},
	)
)
