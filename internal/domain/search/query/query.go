package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search term length in bytes.
	MaxQueryLength  = 4096
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Params are the raw caller-supplied search parameters.
type Params struct {
	SearchTerm string
	Page       int
	PageSize   int
	// Status is the raw reading status; empty means no status filter.
	Status    string
	Embedding []float32
	OwnerID   string
}

// Query is a validated, normalized search request.
type Query struct {
	term      string
	page      int
	pageSize  int
	status    *book.Status
	embedding []float32
	ownerID   string
	filters   filter.Expression
}

// New validates and normalizes search parameters.
// Defaults: page=1, pageSize=50. PageSize is silently clamped to 100.
func New(p Params) (Query, error) {
	term := strings.TrimSpace(p.SearchTerm)
	if term == "" {
		return Query{}, fmt.Errorf("%w: search term is required", domain.ErrInvalidQuery)
	}
	if len(term) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: search term too long (max %d bytes)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	owner := strings.TrimSpace(p.OwnerID)
	if owner == "" {
		return Query{}, fmt.Errorf("%w: owner is required", domain.ErrInvalidQuery)
	}

	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	var status *book.Status
	if strings.TrimSpace(p.Status) != "" {
		st, err := book.ParseStatus(p.Status)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
		status = &st
	}

	filters, err := filter.ForOwner(owner, status)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	var emb []float32
	if len(p.Embedding) > 0 {
		emb = make([]float32, len(p.Embedding))
		copy(emb, p.Embedding)
	}

	return Query{
		term:      term,
		page:      page,
		pageSize:  size,
		status:    status,
		embedding: emb,
		ownerID:   owner,
		filters:   filters,
	}, nil
}

// Term returns the trimmed search term.
func (q *Query) Term() string { return q.term }

// Page returns the 1-based page number.
func (q *Query) Page() int { return q.page }

// PageSize returns the clamped page size.
func (q *Query) PageSize() int { return q.pageSize }

// Skip returns the number of results preceding the requested page.
func (q *Query) Skip() int { return (q.page - 1) * q.pageSize }

// Status returns the optional reading status filter.
func (q *Query) Status() *book.Status { return q.status }

// Embedding returns the query embedding, nil when absent.
func (q *Query) Embedding() []float32 { return q.embedding }

// OwnerID returns the owner every store query is scoped to.
func (q *Query) OwnerID() string { return q.ownerID }

// Filters returns the mandatory owner/status pre-filter.
func (q *Query) Filters() filter.Expression { return q.filters }

// Mode returns hybrid when an embedding is present, lexical otherwise.
func (q *Query) Mode() mode.Mode { return mode.ForEmbedding(q.embedding) }
