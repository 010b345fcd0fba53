package libris

import (
	"errors"

	"github.com/kailas-cloud/libris/internal/domain"
)

// Errors returned by Client methods; match with errors.Is.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrInvalidBook            = domain.ErrInvalidBook
	ErrStoreUnavailable       = domain.ErrStoreUnavailable
	ErrStoreTimeout           = domain.ErrStoreTimeout
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)

// IsRetryable reports whether err is a transient store failure worth retrying.
// Invalid queries and books fail the same way every time.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrStoreTimeout)
}
