package embedding

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/logger"
	"github.com/kailas-cloud/libris/internal/metrics"
)

// QueryEmbedder turns a search term into a query vector for hybrid search.
// It never fails the search: a missing provider or a provider error yields no vector,
// and the search runs lexical-only.
type QueryEmbedder struct {
	inner   domain.Embedder
	timeout time.Duration
}

// NewQueryEmbedder wraps an embedder. inner may be nil.
func NewQueryEmbedder(inner domain.Embedder) *QueryEmbedder {
	return &QueryEmbedder{inner: inner}
}

// WithTimeout bounds each provider call; zero keeps only the caller's deadline.
func (q *QueryEmbedder) WithTimeout(d time.Duration) *QueryEmbedder {
	if d > 0 {
		q.timeout = d
	}
	return q
}

// Enabled reports whether a provider is configured.
func (q *QueryEmbedder) Enabled() bool { return q != nil && q.inner != nil }

// EmbedQuery returns the term vector, or nil when the term is blank or embedding is unavailable.
func (q *QueryEmbedder) EmbedQuery(ctx context.Context, term string) []float32 {
	if !q.Enabled() || strings.TrimSpace(term) == "" {
		return nil
	}

	callCtx := ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := q.inner.Embed(callCtx, term)
	if err != nil {
		metrics.IncQueryFallback()
		logger.FromContext(ctx).Warn("query embedding failed, searching lexical-only",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil
	}
	if len(res.Embedding) == 0 {
		return nil
	}

	logger.FromContext(ctx).Debug("query embedded",
		zap.Duration("duration", time.Since(start)),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res.Embedding
}
