package domain

import "errors"

var (
	// ErrInvalidQuery signals a search request rejected before any store access.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnauthorized signals a request without a resolvable owner identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreUnavailable signals a document store failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStoreTimeout signals a document store call that exceeded its deadline.
	ErrStoreTimeout = errors.New("store timeout")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrInvalidBook signals a book record that cannot be stored.
	ErrInvalidBook = errors.New("invalid book")
)
