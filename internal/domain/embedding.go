package domain

import (
	"context"
	"fmt"
	"strings"
)

// Embedder turns book text or a search term into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can check their provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult is a vector plus the tokens the provider billed for it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// CheckEmbedder checks e when it supports health checks; embedders that cannot be checked count as healthy.
func CheckEmbedder(ctx context.Context, e Embedder) error {
	hc, ok := e.(HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedder health: %w", err)
	}
	return nil
}

// InstructionEmbedder prefixes every text with a task instruction, as instruction-tuned
// models expect different prefixes for indexed books and for search terms.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder wraps inner. A blank instruction returns inner unchanged.
func NewInstructionEmbedder(inner Embedder, instruction string) Embedder {
	if strings.TrimSpace(instruction) == "" {
		return inner
	}
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prefixes text unless it already carries the instruction.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	if !strings.HasPrefix(text, e.instruction) {
		text = e.instruction + text
	}
	result, err := e.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}

// HealthCheck checks the wrapped embedder.
func (e *InstructionEmbedder) HealthCheck(ctx context.Context) error {
	return CheckEmbedder(ctx, e.inner)
}
