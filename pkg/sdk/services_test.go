package libris

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/libris/internal/domain"
	dombatch "github.com/kailas-cloud/libris/internal/domain/batch"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/mode"
	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
)

func testStart() time.Time { return time.Now().Add(-time.Millisecond) }

func TestSearch_Hybrid(t *testing.T) {
	var got *query.Query
	svc := &mockSearchUC{searchFn: func(_ context.Context, q *query.Query) (result.Page, error) {
		got = q
		return onePage(q), nil
	}}
	emb := &mockQueryEmbedder{vec: []float32{0.1, 0.2}}
	c := testClient(svc, nil, emb)

	page, err := c.Search(context.Background(), SearchParams{
		OwnerID: "alice", Term: "  desert planet ", Status: "read", PageSize: 10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Mode != ModeHybrid {
		t.Errorf("mode = %q", page.Mode)
	}
	if got.Mode() != mode.Hybrid || got.Term() != "desert planet" {
		t.Errorf("query = %q/%q", got.Mode(), got.Term())
	}
	if got.Status() == nil || *got.Status() != book.Read {
		t.Errorf("status = %v", got.Status())
	}
	if len(page.Hits) != 1 || page.Hits[0].Book.ID != "dune" || page.Hits[0].Book.Status != StatusRead {
		t.Errorf("hits = %+v", page.Hits)
	}
	if page.PageSize != 10 || page.TotalPages != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestSearch_EmbeddingUnavailableFallsBack(t *testing.T) {
	svc := &mockSearchUC{searchFn: func(_ context.Context, q *query.Query) (result.Page, error) {
		return onePage(q), nil
	}}
	emb := &mockQueryEmbedder{}
	c := testClient(svc, nil, emb)

	page, err := c.Search(context.Background(), SearchParams{OwnerID: "alice", Term: "dune"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Mode != ModeLexical || emb.calls != 1 {
		t.Errorf("mode = %q, embed calls = %d", page.Mode, emb.calls)
	}
}

func TestSearch_LexicalOnlySkipsEmbedder(t *testing.T) {
	svc := &mockSearchUC{searchFn: func(_ context.Context, q *query.Query) (result.Page, error) {
		return onePage(q), nil
	}}
	emb := &mockQueryEmbedder{vec: []float32{1}}
	c := testClient(svc, nil, emb)

	page, err := c.Search(context.Background(), SearchParams{OwnerID: "alice", Term: "dune", LexicalOnly: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Mode != ModeLexical || emb.calls != 0 {
		t.Errorf("mode = %q, embed calls = %d", page.Mode, emb.calls)
	}
}

func TestSearch_ProvidedEmbedding(t *testing.T) {
	var got *query.Query
	svc := &mockSearchUC{searchFn: func(_ context.Context, q *query.Query) (result.Page, error) {
		got = q
		return onePage(q), nil
	}}
	emb := &mockQueryEmbedder{vec: []float32{9}}
	c := testClient(svc, nil, emb)

	_, err := c.Search(context.Background(), SearchParams{
		OwnerID: "alice", Term: "dune", Embedding: []float32{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if emb.calls != 0 || len(got.Embedding()) != 3 {
		t.Errorf("embed calls = %d, embedding = %v", emb.calls, got.Embedding())
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	called := false
	svc := &mockSearchUC{searchFn: func(_ context.Context, _ *query.Query) (result.Page, error) {
		called = true
		return result.Page{}, nil
	}}
	c := testClient(svc, nil, nil)

	tests := []SearchParams{
		{OwnerID: "alice", Term: "   "},
		{OwnerID: "", Term: "dune"},
		{OwnerID: "alice", Term: "dune", Status: "lost"},
	}
	for _, p := range tests {
		if _, err := c.Search(context.Background(), p); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("%+v: err = %v, want ErrInvalidQuery", p, err)
		}
	}
	if called {
		t.Error("invalid queries must not reach the search service")
	}
}

func TestSearch_StoreError(t *testing.T) {
	svc := &mockSearchUC{searchFn: func(_ context.Context, _ *query.Query) (result.Page, error) {
		return result.Page{}, fmt.Errorf("lexical search: %w: timeout", domain.ErrStoreTimeout)
	}}
	c := testClient(svc, nil, nil)

	_, err := c.Search(context.Background(), SearchParams{OwnerID: "alice", Term: "dune"})
	if !errors.Is(err, ErrStoreTimeout) {
		t.Fatalf("err = %v, want ErrStoreTimeout", err)
	}
}

func TestImport(t *testing.T) {
	var got []book.Attributes
	svc := &mockImportUC{importFn: func(_ context.Context, items []book.Attributes) ([]dombatch.Result, error) {
		got = items
		return []dombatch.Result{
			dombatch.NewOK("dune"),
			dombatch.NewLexicalOnly("solaris", domain.ErrEmbeddingProviderError),
			dombatch.NewError("", fmt.Errorf("%w: title is required", domain.ErrInvalidBook)),
		}, nil
	}}
	c := testClient(nil, svc, nil)

	published := time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC)
	results, err := c.Import(context.Background(), []Book{
		{ID: "dune", OwnerID: "alice", Title: "Dune", Tags: []string{"sci-fi"}, PublishedAt: published, Status: "reading"},
		{ID: "solaris", OwnerID: "alice", Title: "Solaris"},
		{OwnerID: "alice"},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if len(got) != 3 || got[0].Status != book.Reading || !got[0].PublishedAt.Equal(published) {
		t.Errorf("attributes = %+v", got)
	}
	if got[1].Status != "" {
		t.Errorf("empty status must be left for the default, got %q", got[1].Status)
	}

	if !results[0].OK || results[0].LexicalOnly {
		t.Errorf("result[0] = %+v", results[0])
	}
	if !results[1].OK || !results[1].LexicalOnly {
		t.Errorf("result[1] = %+v", results[1])
	}
	if results[2].OK || !errors.Is(results[2].Err, ErrInvalidBook) {
		t.Errorf("result[2] = %+v", results[2])
	}
}

func TestImport_ServiceError(t *testing.T) {
	svc := &mockImportUC{importFn: func(ctx context.Context, _ []book.Attributes) ([]dombatch.Result, error) {
		return nil, ctx.Err()
	}}
	c := testClient(nil, svc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Import(ctx, []Book{{Title: "Dune"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
