package libris

import "context"

// Embedder converts text to vector embeddings.
// Optional: without it search and import are lexical-only.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker may be implemented by an Embedder to take part in Client.Health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// EmbedderFunc lets a plain function serve as an Embedder, e.g. a local model call.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed calls f. Token counts are zero.
func (f EmbedderFunc) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	vec, err := f(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err //nolint:wrapcheck // caller-supplied error
	}
	return EmbeddingResult{Embedding: vec}, nil
}
