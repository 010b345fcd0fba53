package libris

import "time"

// Status is the reading status of a book.
type Status string

// Reading status values.
const (
	StatusUnread  Status = "Unread"
	StatusReading Status = "Reading"
	StatusRead    Status = "Read"
)

// SearchMode reports which pipeline answered a search.
type SearchMode string

// Search mode constants.
const (
	ModeLexical SearchMode = "lexical"
	ModeHybrid  SearchMode = "hybrid"
)

// Book is a catalog record. An empty ID is assigned on import;
// an empty Status defaults to StatusUnread.
type Book struct {
	ID          string
	OwnerID     string
	Title       string
	Authors     string
	Publisher   string
	Description string
	Annotation  string
	Tags        []string
	ISBN10      string
	ISBN13      string
	PageCount   int
	PublishedAt time.Time
	Status      Status
}

// SearchParams describe one search over an owner's library.
type SearchParams struct {
	OwnerID string
	Term    string
	// Page is 1-based; 0 means the first page.
	Page int
	// PageSize defaults to 50 and is capped at 100.
	PageSize int
	// Status filters by reading status; empty means any.
	Status Status
	// Embedding skips the configured embedder when set.
	Embedding []float32
	// LexicalOnly skips the semantic stage.
	LexicalOnly bool
}

// Hit is a single ranked book.
type Hit struct {
	Book  Book
	Score float64
}

// SearchPage is a page of ranked books.
type SearchPage struct {
	Hits       []Hit
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
	Mode       SearchMode
}

// ImportResult is the outcome of importing one book.
type ImportResult struct {
	ID string
	OK bool
	// LexicalOnly is set when the book was stored without an embedding.
	LexicalOnly bool
	Err         error
}
