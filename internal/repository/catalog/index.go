package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/libris/internal/db"
	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/domain/book"
)

// KeyPrefix is the key prefix of every book document.
const KeyPrefix = domain.KeyPrefix + "book:"

// Options configure the book index.
type Options struct {
	Name           string
	Dimensions     int
	Distance       db.DistanceMetric
	M              int
	EFConstruction int
}

// DefaultOptions returns the index settings used when config leaves them unset.
func DefaultOptions() Options {
	return Options{
		Name:           "books",
		Dimensions:     1536,
		Distance:       db.DistanceCosine,
		M:              16,
		EFConstruction: 200,
	}
}

// Definition builds the book index: full-text fields for the lexical clauses,
// exact-match tags for filters and the exact publisher clause, and the HNSW vector.
func Definition(o Options) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(o.Name).
		Prefix(KeyPrefix).
		Text(
			book.FieldTitle, book.FieldAuthors, book.FieldPublisher,
			book.FieldDescription, book.FieldAnnotation, book.FieldTags,
		).
		Tag(book.FieldPublisherExact, book.FieldOwnerID, book.FieldStatus).
		Numeric(book.FieldPageCount).
		Stored(book.FieldISBN10, book.FieldISBN13, book.FieldPublishedAt).
		VectorHNSW(book.FieldVector, o.Dimensions, o.Distance, o.M, o.EFConstruction).
		Build()
	if err != nil {
		return nil, fmt.Errorf("book index: %w", err)
	}
	return def, nil
}

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Manager creates and drops the book index.
type Manager struct {
	store store
	def   *db.IndexDefinition
}

// NewManager creates an index manager for def.
func NewManager(s store, def *db.IndexDefinition) *Manager {
	return &Manager{store: s, def: def}
}

// Definition returns the managed index definition.
func (m *Manager) Definition() *db.IndexDefinition { return m.def }

// Create creates the index; db.ErrIndexExists is returned wrapped if it already exists.
func (m *Manager) Create(ctx context.Context) error {
	if err := m.store.CreateIndex(ctx, m.def); err != nil {
		return fmt.Errorf("create index %s: %w", m.def.Name, err)
	}
	return nil
}

// Drop removes the index.
func (m *Manager) Drop(ctx context.Context) error {
	if err := m.store.DropIndex(ctx, m.def.Name); err != nil {
		return fmt.Errorf("drop index %s: %w", m.def.Name, err)
	}
	return nil
}

// Exists reports whether the index exists.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	ok, err := m.store.IndexExists(ctx, m.def.Name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", m.def.Name, err)
	}
	return ok, nil
}

// Ensure creates the index when it is missing and reports whether it did.
func (m *Manager) Ensure(ctx context.Context) (bool, error) {
	ok, err := m.Exists(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := m.Create(ctx); err != nil {
		return false, err
	}
	return true, nil
}
