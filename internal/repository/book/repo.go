package book

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/libris/internal/db"
	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
)

// store is the consumer interface for book storage and retrieval (ISP).
type store interface {
	PutDocument(ctx context.Context, def *db.IndexDefinition, doc *db.Document) error
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CountText(ctx context.Context, q *db.TextQuery) (int, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo stores books and runs both search stages against the book index.
type Repo struct {
	store store
	def   *db.IndexDefinition
}

// New creates a book repository for the given index.
func New(s store, def *db.IndexDefinition) *Repo {
	return &Repo{store: s, def: def}
}

// Put upserts a book together with its embedding, if any.
func (r *Repo) Put(ctx context.Context, b *book.Book) error {
	doc := &db.Document{
		Key:    Key(b.ID()),
		Fields: toFields(b),
		Vector: b.Embedding(),
	}
	if err := r.store.PutDocument(ctx, r.def, doc); err != nil {
		return storeError("put book", err)
	}
	return nil
}

// SearchLexical runs the boosted full-text query, best match first.
func (r *Repo) SearchLexical(
	ctx context.Context, q *lexical.Query, offset, limit int,
) ([]result.Hit, error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.def.Name,
		Query:        q,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: r.def.ReturnFields(),
	})
	if err != nil {
		return nil, storeError("lexical search", err)
	}
	return toHits(res), nil
}

// CountLexical counts every document matching the boosted query.
func (r *Repo) CountLexical(ctx context.Context, q *lexical.Query) (int, error) {
	n, err := r.store.CountText(ctx, &db.TextQuery{
		IndexName: r.def.Name,
		Query:     q,
	})
	if err != nil {
		return 0, storeError("lexical count", err)
	}
	return n, nil
}

// SearchSemantic runs approximate nearest-neighbour search, closest first.
func (r *Repo) SearchSemantic(
	ctx context.Context, vector []float32, filters filter.Expression,
	limit, numCandidates int,
) ([]result.Hit, error) {
	vf, ok := r.def.VectorField()
	if !ok {
		return nil, fmt.Errorf("semantic search: index %s has no vector field: %w",
			r.def.Name, domain.ErrStoreUnavailable)
	}
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:     r.def.Name,
		VectorField:   vf.Name,
		Distance:      vf.VectorDistance,
		Filters:       filters,
		Vector:        vector,
		K:             limit,
		NumCandidates: numCandidates,
		ReturnFields:  r.def.ReturnFields(),
	})
	if err != nil {
		return nil, storeError("semantic search", err)
	}
	return toHits(res), nil
}

func toHits(res *db.SearchResult) []result.Hit {
	if res == nil {
		return nil
	}
	hits := make([]result.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, result.Hit{Book: fromFields(e.Key, e.Fields), Score: e.Score})
	}
	return hits
}

// storeError classifies a backend failure as a timeout or an unavailable store.
func storeError(op string, err error) error {
	if db.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
