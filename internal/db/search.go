package db

import (
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
)

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName   string
	VectorField string
	Distance    DistanceMetric
	Filters     filter.Expression
	Vector      []float32
	K           int
	// NumCandidates is the HNSW search breadth (EF_RUNTIME / hnsw.ef_search).
	NumCandidates int
	ReturnFields  []string
}

// TextQuery is the input for boosted lexical search and its count.
type TextQuery struct {
	IndexName    string
	Query        *lexical.Query
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
