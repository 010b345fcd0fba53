package result

import "github.com/kailas-cloud/libris/internal/domain/book"

// Hit is a book returned by a store stage together with its stage score.
type Hit struct {
	Book  book.Book
	Score float64
}

// Candidate is a stage result reduced to what rank fusion needs.
type Candidate struct {
	DocumentID string
	// Rank is the 0-based position within the stage's returned list.
	Rank int
	// StageScore is informational and never used for ordering.
	StageScore float64
}

// Candidates converts stage hits into ranked candidates.
func Candidates(hits []Hit) []Candidate {
	out := make([]Candidate, len(hits))
	for i, h := range hits {
		out[i] = Candidate{DocumentID: h.Book.ID(), Rank: i, StageScore: h.Score}
	}
	return out
}

// Fused is a book with its combined reciprocal-rank score.
type Fused struct {
	Book  book.Book
	Score float64
	// TextRank and VectorRank are -1 when the book was absent from that stage.
	TextRank   int
	VectorRank int
}

// Item is a single entry of a result page.
type Item struct {
	Book  book.Book
	Score float64
}

// Page is a paginated search response.
//
// In hybrid mode TotalCount is the number of fused candidates, bounded by
// twice the page size per stage; it is not the size of the full match set.
type Page struct {
	Items      []Item
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// TotalPages returns ceil(total / pageSize); zero for an empty result or page size.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// NewPage builds a page, computing TotalPages and guaranteeing a non-nil Items slice.
func NewPage(items []Item, total, page, pageSize int) Page {
	if items == nil {
		items = []Item{}
	}
	return Page{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
