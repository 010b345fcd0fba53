package book

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/repository/catalog"
)

const dateLayout = "2006-01-02"

// Key returns the storage key of a book.
func Key(id string) string {
	return catalog.KeyPrefix + id
}

// idFromKey strips the key prefix.
func idFromKey(key string) string {
	return strings.TrimPrefix(key, catalog.KeyPrefix)
}

// toFields converts a book into the flat document stored under the index.
func toFields(b *book.Book) map[string]string {
	fields := map[string]string{
		book.FieldTitle:          b.Title(),
		book.FieldAuthors:        b.Authors(),
		book.FieldPublisher:      b.Publisher(),
		book.FieldPublisherExact: strings.ToLower(strings.TrimSpace(b.Publisher())),
		book.FieldDescription:    b.Description(),
		book.FieldAnnotation:     b.Annotation(),
		book.FieldTags:           strings.Join(b.Tags(), ", "),
		book.FieldISBN10:         b.ISBN10(),
		book.FieldISBN13:         b.ISBN13(),
		book.FieldPageCount:      strconv.Itoa(b.PageCount()),
		book.FieldStatus:         string(b.Status()),
		book.FieldOwnerID:        b.OwnerID(),
	}
	if !b.PublishedAt().IsZero() {
		fields[book.FieldPublishedAt] = b.PublishedAt().Format(dateLayout)
	}
	return fields
}

// fromFields hydrates a book from stored fields. Unparseable numbers and dates
// fall back to zero values.
func fromFields(key string, fields map[string]string) book.Book {
	a := book.Attributes{
		ID:          idFromKey(key),
		OwnerID:     fields[book.FieldOwnerID],
		Title:       fields[book.FieldTitle],
		Authors:     fields[book.FieldAuthors],
		Publisher:   fields[book.FieldPublisher],
		Description: fields[book.FieldDescription],
		Annotation:  fields[book.FieldAnnotation],
		Tags:        splitTags(fields[book.FieldTags]),
		ISBN10:      fields[book.FieldISBN10],
		ISBN13:      fields[book.FieldISBN13],
		Status:      book.Status(fields[book.FieldStatus]),
	}
	if v, err := strconv.Atoi(fields[book.FieldPageCount]); err == nil {
		a.PageCount = v
	}
	if v, err := time.Parse(dateLayout, fields[book.FieldPublishedAt]); err == nil {
		a.PublishedAt = v
	}
	return book.Reconstruct(a, nil)
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
