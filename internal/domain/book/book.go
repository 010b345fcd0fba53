package book

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Field names shared by the search index, the storage layer and the lexical query.
const (
	FieldTitle          = "title"
	FieldAuthors        = "authors"
	FieldPublisher      = "publisher"
	FieldPublisherExact = "publisher_exact"
	FieldDescription    = "description"
	FieldAnnotation     = "annotation"
	FieldTags           = "tags"
	FieldISBN10         = "isbn10"
	FieldISBN13         = "isbn13"
	FieldPageCount      = "page_count"
	FieldPublishedAt    = "published_at"
	FieldStatus         = "status"
	FieldOwnerID        = "owner_id"
	FieldVector         = "vector"
)

// MaxIDLength bounds book and owner IDs.
const MaxIDLength = 256

// ValidateOwnerID checks that an owner ID uses the book ID charset. Owner IDs are
// exact-match tags in the index, so separators or whitespace would split them.
func ValidateOwnerID(id string) error {
	if id == "" {
		return fmt.Errorf("owner ID is required")
	}
	if len(id) > MaxIDLength || !idRegex.MatchString(id) {
		return fmt.Errorf("owner ID must be 1-%d alphanumeric characters, underscores or hyphens", MaxIDLength)
	}
	return nil
}

// MaxTitleLength is the maximum title length in bytes.
const MaxTitleLength = 1024

// Attributes are the caller-provided fields of a book record.
type Attributes struct {
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

// Book is a catalog record (immutable value object). The embedding is optional:
// books without one are only reachable through lexical search.
type Book struct {
	attrs     Attributes
	embedding []float32
}

// New validates and creates a Book.
func New(a Attributes) (Book, error) {
	if a.ID == "" {
		return Book{}, fmt.Errorf("book ID is required")
	}
	if len(a.ID) > MaxIDLength || !idRegex.MatchString(a.ID) {
		return Book{}, fmt.Errorf("book ID must be 1-%d alphanumeric characters, underscores or hyphens", MaxIDLength)
	}
	if err := ValidateOwnerID(a.OwnerID); err != nil {
		return Book{}, err
	}
	if strings.TrimSpace(a.Title) == "" {
		return Book{}, fmt.Errorf("title is required")
	}
	if len(a.Title) > MaxTitleLength {
		return Book{}, fmt.Errorf("title too long (max %d bytes)", MaxTitleLength)
	}
	if a.PageCount < 0 {
		return Book{}, fmt.Errorf("page count must not be negative")
	}
	if a.Status == "" {
		a.Status = Unread
	}
	if !a.Status.IsValid() {
		return Book{}, fmt.Errorf("invalid reading status %q", a.Status)
	}
	a.Tags = cloneTags(a.Tags)
	return Book{attrs: a}, nil
}

// Reconstruct creates a Book without validation (storage hydration).
func Reconstruct(a Attributes, embedding []float32) Book {
	return Book{attrs: a, embedding: embedding}
}

// ID returns the book identifier.
func (b *Book) ID() string { return b.attrs.ID }

// OwnerID returns the identity that owns the record.
func (b *Book) OwnerID() string { return b.attrs.OwnerID }

// Title returns the title.
func (b *Book) Title() string { return b.attrs.Title }

// Authors returns the author string.
func (b *Book) Authors() string { return b.attrs.Authors }

// Publisher returns the publisher.
func (b *Book) Publisher() string { return b.attrs.Publisher }

// Description returns the free-text description.
func (b *Book) Description() string { return b.attrs.Description }

// Annotation returns the owner's annotation.
func (b *Book) Annotation() string { return b.attrs.Annotation }

// Tags returns the tags.
func (b *Book) Tags() []string { return b.attrs.Tags }

// ISBN10 returns the ISBN-10.
func (b *Book) ISBN10() string { return b.attrs.ISBN10 }

// ISBN13 returns the ISBN-13.
func (b *Book) ISBN13() string { return b.attrs.ISBN13 }

// PageCount returns the number of pages.
func (b *Book) PageCount() int { return b.attrs.PageCount }

// PublishedAt returns the publication date (zero if unknown).
func (b *Book) PublishedAt() time.Time { return b.attrs.PublishedAt }

// Status returns the reading status.
func (b *Book) Status() Status { return b.attrs.Status }

// Attributes returns a copy of the record fields.
func (b *Book) Attributes() Attributes {
	a := b.attrs
	a.Tags = cloneTags(a.Tags)
	return a
}

// Embedding returns the stored embedding (nil when none was generated).
func (b *Book) Embedding() []float32 { return b.embedding }

// HasEmbedding reports whether the book is a semantic search candidate.
func (b *Book) HasEmbedding() bool { return len(b.embedding) > 0 }

// WithEmbedding returns a copy with the given embedding set.
func (b *Book) WithEmbedding(v []float32) Book {
	return Book{attrs: b.Attributes(), embedding: v}
}

// EmbeddingText is the text fed to the embedding provider for this record.
func (b *Book) EmbeddingText() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{b.attrs.Title, b.attrs.Authors, b.attrs.Description} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(b.attrs.Tags) > 0 {
		parts = append(parts, strings.Join(b.attrs.Tags, ", "))
	}
	return strings.Join(parts, "\n")
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	c := make([]string, len(tags))
	copy(c, tags)
	return c
}
