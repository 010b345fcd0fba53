package batch

import (
	"context"

	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/domain/book"
)

// BookWriter stores a book together with its embedding.
type BookWriter interface {
	Put(ctx context.Context, b *book.Book) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
