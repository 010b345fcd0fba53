package libris

import (
	"github.com/kailas-cloud/libris/internal/domain/batch"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
)

// toAttributes accepts any casing of the reading status; unknown values are left for validation to reject.
func toAttributes(b *Book) book.Attributes {
	status := book.Status(b.Status)
	if st, err := book.ParseStatus(string(b.Status)); err == nil {
		status = st
	}
	return book.Attributes{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Title:       b.Title,
		Authors:     b.Authors,
		Publisher:   b.Publisher,
		Description: b.Description,
		Annotation:  b.Annotation,
		Tags:        b.Tags,
		ISBN10:      b.ISBN10,
		ISBN13:      b.ISBN13,
		PageCount:   b.PageCount,
		PublishedAt: b.PublishedAt,
		Status:      status,
	}
}

func fromBook(b *book.Book) Book {
	return Book{
		ID:          b.ID(),
		OwnerID:     b.OwnerID(),
		Title:       b.Title(),
		Authors:     b.Authors(),
		Publisher:   b.Publisher(),
		Description: b.Description(),
		Annotation:  b.Annotation(),
		Tags:        b.Tags(),
		ISBN10:      b.ISBN10(),
		ISBN13:      b.ISBN13(),
		PageCount:   b.PageCount(),
		PublishedAt: b.PublishedAt(),
		Status:      Status(b.Status()),
	}
}

func fromPage(p *result.Page, mode SearchMode) SearchPage {
	hits := make([]Hit, len(p.Items))
	for i := range p.Items {
		hits[i] = Hit{Book: fromBook(&p.Items[i].Book), Score: p.Items[i].Score}
	}
	return SearchPage{
		Hits:       hits,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Mode:       mode,
	}
}

func fromImportResults(results []batch.Result) []ImportResult {
	out := make([]ImportResult, len(results))
	for i, r := range results {
		out[i] = ImportResult{
			ID:          r.ID(),
			OK:          r.Stored(),
			LexicalOnly: r.Status() == batch.StatusLexicalOnly,
			Err:         r.Err(),
		}
	}
	return out
}
