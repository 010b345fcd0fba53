package book

import (
	"context"

	"github.com/kailas-cloud/libris/internal/db"
)

type mockStore struct {
	putFn   func(ctx context.Context, def *db.IndexDefinition, doc *db.Document) error
	textFn  func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	countFn func(ctx context.Context, q *db.TextQuery) (int, error)
	knnFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) PutDocument(ctx context.Context, def *db.IndexDefinition, doc *db.Document) error {
	if m.putFn != nil {
		return m.putFn(ctx, def, doc)
	}
	return nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.textFn != nil {
		return m.textFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CountText(ctx context.Context, q *db.TextQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}
