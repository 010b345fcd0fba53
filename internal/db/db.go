package db

import (
	"context"
	"time"
)

// Store is a search backend: Redis 8 with the Query Engine or PostgreSQL with pgvector.
// Repositories depend on the narrow interfaces below; only wiring code holds a Store.
//
//nolint:interfacebloat // wiring facade
type Store interface {
	Pinger
	DocumentWriter
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Document is a flat record addressed by key, stored under an index definition.
// Redis keeps it as a hash, Postgres as a row of the index table.
type Document struct {
	Key    string
	Fields map[string]string
	// Vector is stored in the definition's vector field; nil leaves it empty.
	Vector []float32
}

// DocumentWriter stores documents for an index.
type DocumentWriter interface {
	PutDocument(ctx context.Context, def *IndexDefinition, doc *Document) error
}

// KVStore holds opaque values outside any index, such as cached embeddings.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs the two retrieval stages: weighted lexical and k-nearest-neighbour.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	CountText(ctx context.Context, q *TextQuery) (int, error)
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
