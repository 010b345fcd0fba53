package book

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/libris/internal/db"
	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
	"github.com/kailas-cloud/libris/internal/repository/catalog"
)

func testDef(t *testing.T) *db.IndexDefinition {
	t.Helper()
	o := catalog.DefaultOptions()
	o.Dimensions = 3
	def, err := catalog.Definition(o)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	return def
}

func testBook(t *testing.T) book.Book {
	t.Helper()
	b, err := book.New(book.Attributes{
		ID:          "dune",
		OwnerID:     "alice",
		Title:       "Dune",
		Authors:     "Frank Herbert",
		Publisher:   "Chilton Books",
		Tags:        []string{"sci-fi", "classic"},
		PageCount:   412,
		PublishedAt: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:      book.Read,
	})
	if err != nil {
		t.Fatalf("book.New: %v", err)
	}
	return b
}

func TestPut_StoresFlatDocument(t *testing.T) {
	var got *db.Document
	ms := &mockStore{putFn: func(_ context.Context, _ *db.IndexDefinition, doc *db.Document) error {
		got = doc
		return nil
	}}
	b := testBook(t)
	b = b.WithEmbedding([]float32{1, 0, 0})

	if err := New(ms, testDef(t)).Put(context.Background(), &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "libris:book:dune" {
		t.Errorf("key = %q", got.Key)
	}
	checks := map[string]string{
		book.FieldPublisherExact: "chilton books",
		book.FieldTags:           "sci-fi, classic",
		book.FieldPageCount:      "412",
		book.FieldPublishedAt:    "1965-08-01",
		book.FieldStatus:         "Read",
		book.FieldOwnerID:        "alice",
	}
	for k, want := range checks {
		if got.Fields[k] != want {
			t.Errorf("field %s = %q, want %q", k, got.Fields[k], want)
		}
	}
	if len(got.Vector) != 3 {
		t.Errorf("vector len = %d", len(got.Vector))
	}
}

func TestPut_OmitsUnknownDate(t *testing.T) {
	var got *db.Document
	ms := &mockStore{putFn: func(_ context.Context, _ *db.IndexDefinition, doc *db.Document) error {
		got = doc
		return nil
	}}
	b, _ := book.New(book.Attributes{ID: "x", OwnerID: "alice", Title: "X"})

	if err := New(ms, testDef(t)).Put(context.Background(), &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.Fields[book.FieldPublishedAt]; ok {
		t.Error("zero publication date must not be stored")
	}
	if got.Vector != nil {
		t.Error("book without embedding must not store a vector")
	}
}

func TestSearchLexical_MapsEntries(t *testing.T) {
	var got *db.TextQuery
	ms := &mockStore{textFn: func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{Entries: []db.SearchEntry{
			{Key: "libris:book:dune", Score: 12.5, Fields: map[string]string{
				book.FieldTitle:       "Dune",
				book.FieldTags:        "sci-fi, classic",
				book.FieldPageCount:   "412",
				book.FieldPublishedAt: "1965-08-01",
				book.FieldStatus:      "Read",
			}},
		}}, nil
	}}
	q := lexical.New("dune", filter.Expression{}, lexical.DefaultBoosts())

	hits, err := New(ms, testDef(t)).SearchLexical(context.Background(), &q, 50, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IndexName != "books" || got.Offset != 50 || got.Limit != 50 {
		t.Errorf("query = %+v", got)
	}
	if len(got.ReturnFields) == 0 {
		t.Error("expected return fields")
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	h := hits[0]
	if h.Book.ID() != "dune" || h.Score != 12.5 {
		t.Errorf("hit = %s/%v", h.Book.ID(), h.Score)
	}
	if len(h.Book.Tags()) != 2 || h.Book.Tags()[1] != "classic" {
		t.Errorf("tags = %v", h.Book.Tags())
	}
	if h.Book.PageCount() != 412 || h.Book.PublishedAt().Year() != 1965 {
		t.Errorf("page count/date = %d/%v", h.Book.PageCount(), h.Book.PublishedAt())
	}
	if h.Book.Status() != book.Read {
		t.Errorf("status = %q", h.Book.Status())
	}
}

func TestSearchLexical_BadNumbersFallBackToZero(t *testing.T) {
	ms := &mockStore{textFn: func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Entries: []db.SearchEntry{
			{Key: "libris:book:x", Fields: map[string]string{
				book.FieldPageCount:   "lots",
				book.FieldPublishedAt: "someday",
			}},
		}}, nil
	}}
	q := lexical.New("x", filter.Expression{}, lexical.DefaultBoosts())

	hits, err := New(ms, testDef(t)).SearchLexical(context.Background(), &q, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits[0].Book.PageCount() != 0 || !hits[0].Book.PublishedAt().IsZero() {
		t.Error("expected zero values for unparseable fields")
	}
}

func TestCountLexical(t *testing.T) {
	ms := &mockStore{countFn: func(_ context.Context, q *db.TextQuery) (int, error) {
		if q.Query.Text() != "dune" {
			t.Errorf("count query text = %q", q.Query.Text())
		}
		return 7, nil
	}}
	q := lexical.New("dune", filter.Expression{}, lexical.DefaultBoosts())

	n, err := New(ms, testDef(t)).CountLexical(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("count = %d", n)
	}
}

func TestSearchSemantic_BuildsKNNQuery(t *testing.T) {
	var got *db.KNNQuery
	ms := &mockStore{knnFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{Entries: []db.SearchEntry{
			{Key: "libris:book:a", Score: 0.9},
			{Key: "libris:book:b", Score: 0.7},
		}}, nil
	}}
	f, err := filter.ForOwner("alice", nil)
	if err != nil {
		t.Fatalf("ForOwner: %v", err)
	}

	hits, err := New(ms, testDef(t)).SearchSemantic(context.Background(), []float32{1, 0, 0}, f, 100, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.VectorField != book.FieldVector || got.Distance != db.DistanceCosine {
		t.Errorf("vector field/distance = %s/%s", got.VectorField, got.Distance)
	}
	if got.K != 100 || got.NumCandidates != 100 {
		t.Errorf("k/candidates = %d/%d", got.K, got.NumCandidates)
	}
	if v, _ := got.Filters.Value(book.FieldOwnerID); v != "alice" {
		t.Errorf("owner filter = %q", v)
	}
	if len(hits) != 2 || hits[0].Book.ID() != "a" || hits[1].Book.ID() != "b" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"timeout", fmt.Errorf("ft.search: %w", context.DeadlineExceeded), domain.ErrStoreTimeout},
		{"unavailable", errors.New("connection refused"), domain.ErrStoreUnavailable},
		{"missing index", db.ErrIndexNotFound, domain.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{
				textFn: func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
					return nil, tt.err
				},
				countFn: func(context.Context, *db.TextQuery) (int, error) {
					return 0, tt.err
				},
				knnFn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
					return nil, tt.err
				},
			}
			repo := New(ms, testDef(t))
			q := lexical.New("dune", filter.Expression{}, lexical.DefaultBoosts())
			ctx := context.Background()

			if _, err := repo.SearchLexical(ctx, &q, 0, 10); !errors.Is(err, tt.want) {
				t.Errorf("SearchLexical: expected %v, got %v", tt.want, err)
			}
			if _, err := repo.CountLexical(ctx, &q); !errors.Is(err, tt.want) {
				t.Errorf("CountLexical: expected %v, got %v", tt.want, err)
			}
			if _, err := repo.SearchSemantic(ctx, []float32{1, 0, 0}, filter.Expression{}, 10, 100); !errors.Is(err, tt.want) {
				t.Errorf("SearchSemantic: expected %v, got %v", tt.want, err)
			}
			if _, err := repo.SearchLexical(ctx, &q, 0, 10); !errors.Is(err, tt.err) {
				t.Errorf("underlying error lost: %v", err)
			}
		})
	}
}
