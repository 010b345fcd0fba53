package chi

import (
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
)

const dateLayout = "2006-01-02"

// SearchRequest is the POST /v1/books/search body.
type SearchRequest struct {
	SearchTerm string    `json:"searchTerm"`
	Page       int       `json:"page,omitempty"`
	PageSize   int       `json:"pageSize,omitempty"`
	Status     string    `json:"status,omitempty"`
	Embedding  []float32 `json:"embedding,omitempty"`
	// Semantic=false forces lexical-only search; nil means enabled.
	Semantic *bool `json:"semantic,omitempty"`
}

// SearchResponse is a page of ranked books.
type SearchResponse struct {
	Items      []BookItem `json:"items"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
	Mode       string     `json:"mode"`
}

// BookItem is a single ranked book.
type BookItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     string   `json:"authors,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Description string   `json:"description,omitempty"`
	Annotation  string   `json:"annotation,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ISBN10      string   `json:"isbn10,omitempty"`
	ISBN13      string   `json:"isbn13,omitempty"`
	PageCount   int      `json:"pageCount,omitempty"`
	PublishedAt string   `json:"publishedAt,omitempty"`
	Status      string   `json:"status"`
	Score       float64  `json:"score"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Error codes.
const (
	CodeBadRequest       = "bad_request"
	CodeInvalidQuery     = "invalid_query"
	CodeUnauthorized     = "unauthorized"
	CodeStoreUnavailable = "store_unavailable"
	CodeStoreTimeout     = "store_timeout"
	CodeInternalError    = "internal_error"
)

func searchResponseFromPage(p *result.Page, mode string) SearchResponse {
	items := make([]BookItem, len(p.Items))
	for i := range p.Items {
		items[i] = bookItem(&p.Items[i].Book, p.Items[i].Score)
	}
	return SearchResponse{
		Items:      items,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Mode:       mode,
	}
}

func bookItem(b *book.Book, score float64) BookItem {
	item := BookItem{
		ID:          b.ID(),
		Title:       b.Title(),
		Authors:     b.Authors(),
		Publisher:   b.Publisher(),
		Description: b.Description(),
		Annotation:  b.Annotation(),
		Tags:        b.Tags(),
		ISBN10:      b.ISBN10(),
		ISBN13:      b.ISBN13(),
		PageCount:   b.PageCount(),
		Status:      string(b.Status()),
		Score:       score,
	}
	if !b.PublishedAt().IsZero() {
		item.PublishedAt = b.PublishedAt().Format(dateLayout)
	}
	return item
}
