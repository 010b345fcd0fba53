package lexical

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
)

// Fuzzy matching tolerances.
const (
	MaxEdits     = 1
	PrefixLength = 2
	// MinimumShouldMatch is the number of clauses a document must satisfy.
	MinimumShouldMatch = 1
)

// Kind identifies how a clause matches its fields.
type Kind string

// Clause kinds.
const (
	// Phrase matches the whole term as a contiguous phrase.
	Phrase Kind = "phrase"
	// Exact matches the whole field value, case-insensitively.
	Exact  Kind = "exact"
	Prefix Kind = "prefix"
	Fuzzy  Kind = "fuzzy"
	// Term matches any analyzed token of the term.
	Term Kind = "term"
)

// Boosts are the per-clause weights.
type Boosts struct {
	Phrase         float64 `yaml:"phrase"`
	PublisherExact float64 `yaml:"publisher_exact"`
	Prefix         float64 `yaml:"prefix"`
	Fuzzy          float64 `yaml:"fuzzy"`
	Tags           float64 `yaml:"tags"`
	Description    float64 `yaml:"description"`
}

// DefaultBoosts returns the catalog's standard weights.
func DefaultBoosts() Boosts {
	return Boosts{
		Phrase:         8,
		PublisherExact: 5,
		Prefix:         3,
		Fuzzy:          2,
		Tags:           2,
		Description:    1,
	}
}

// Clause is a single weighted matching rule.
type Clause struct {
	Kind   Kind
	Fields []string
	Weight float64
}

// Query is a filtered boosted query: OR'd weighted clauses under a mandatory filter.
type Query struct {
	text    string
	terms   []string
	clauses []Clause
	filters filter.Expression
}

// New builds the lexical query for a normalized search term.
// Clauses with a non-positive weight are omitted.
func New(text string, filters filter.Expression, b Boosts) Query {
	text = strings.TrimSpace(text)
	all := []Clause{
		{Kind: Phrase, Fields: []string{book.FieldTitle, book.FieldAuthors}, Weight: b.Phrase},
		{Kind: Exact, Fields: []string{book.FieldPublisherExact}, Weight: b.PublisherExact},
		{Kind: Prefix, Fields: []string{book.FieldTitle, book.FieldAuthors, book.FieldPublisher}, Weight: b.Prefix},
		{Kind: Fuzzy, Fields: []string{book.FieldTitle, book.FieldAuthors, book.FieldPublisher}, Weight: b.Fuzzy},
		{Kind: Term, Fields: []string{book.FieldTags}, Weight: b.Tags},
		{Kind: Term, Fields: []string{book.FieldDescription, book.FieldAnnotation}, Weight: b.Description},
	}
	clauses := make([]Clause, 0, len(all))
	for _, c := range all {
		if c.Weight > 0 {
			clauses = append(clauses, c)
		}
	}
	return Query{
		text:    text,
		terms:   Tokenize(text),
		clauses: clauses,
		filters: filters,
	}
}

// Text returns the trimmed search text.
func (q *Query) Text() string { return q.text }

// Terms returns the lowercased tokens of the text.
func (q *Query) Terms() []string { return q.terms }

// Clauses returns the weighted clauses in declaration order.
func (q *Query) Clauses() []Clause { return q.clauses }

// Filters returns the mandatory filter expression.
func (q *Query) Filters() filter.Expression { return q.filters }

// Clause returns the first clause of the given kind covering field.
func (q *Query) Clause(kind Kind, field string) (Clause, bool) {
	for _, c := range q.clauses {
		if c.Kind != kind {
			continue
		}
		for _, f := range c.Fields {
			if f == field {
				return c, true
			}
		}
	}
	return Clause{}, false
}

// Tokenize splits text into lowercased letter/digit runs.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
