package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	embeddingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Embedding provider calls by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	embeddingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "libris",
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Successful embedding provider call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	embeddingTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "embedding",
			Name:      "tokens_total",
			Help:      "Tokens billed by the embedding provider",
		},
		[]string{"provider", "model", "type"},
	)

	embeddingErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "embedding",
			Name:      "errors_total",
			Help:      "Embedding provider failures by reason",
		},
		[]string{"provider", "model", "reason"},
	)

	queryFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "embedding",
			Name:      "query_fallbacks_total",
			Help:      "Search terms that could not be embedded and were searched lexical-only",
		},
	)

	// EmbeddingCacheTotal counts embedding cache lookups by result ("hit" or "miss").
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "libris",
			Subsystem: "embedding",
			Name:      "cache_total",
			Help:      "Embedding cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerEmbedding sync.Once

// RegisterEmbeddingMetrics registers the embedding collectors with the default registry.
// Only processes that embed need them, so registration is explicit and idempotent.
func RegisterEmbeddingMetrics() {
	registerEmbedding.Do(func() {
		prometheus.MustRegister(
			embeddingRequests,
			embeddingDuration,
			embeddingTokens,
			embeddingErrors,
			queryFallbacks,
			EmbeddingCacheTotal,
		)
	})
}

// ObserveEmbedding records a successful provider call and the tokens it consumed.
func ObserveEmbedding(provider, model string, start time.Time, promptTokens, totalTokens int) {
	embeddingRequests.WithLabelValues(provider, model, "success").Inc()
	embeddingDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())
	if totalTokens > 0 {
		embeddingTokens.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
		embeddingTokens.WithLabelValues(provider, model, "total").Add(float64(totalTokens))
	}
}

// ObserveEmbeddingError records a failed provider call.
func ObserveEmbeddingError(provider, model, reason string) {
	embeddingRequests.WithLabelValues(provider, model, "error").Inc()
	embeddingErrors.WithLabelValues(provider, model, reason).Inc()
}

// IncQueryFallback counts a search term searched lexical-only because embedding failed.
func IncQueryFallback() {
	queryFallbacks.Inc()
}
