package search

import (
	"context"

	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
// Every call is scoped by the filter carried in its arguments.
type Repository interface {
	// SearchLexical runs the boosted query, best match first.
	SearchLexical(ctx context.Context, q *lexical.Query, offset, limit int) ([]result.Hit, error)

	// CountLexical counts all documents matching the boosted query.
	CountLexical(ctx context.Context, q *lexical.Query) (int, error)

	// SearchSemantic runs an approximate nearest-neighbour query, closest first.
	SearchSemantic(
		ctx context.Context, vector []float32, filters filter.Expression,
		limit, numCandidates int,
	) ([]result.Hit, error)
}
