package lexical

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
)

func ownerFilter(t *testing.T) filter.Expression {
	t.Helper()
	f, err := filter.ForOwner("alice", nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	return f
}

func TestNew_DefaultClauses(t *testing.T) {
	q := New("  The Hobbit ", ownerFilter(t), DefaultBoosts())

	if q.Text() != "The Hobbit" {
		t.Errorf("Text() = %q", q.Text())
	}
	if !reflect.DeepEqual(q.Terms(), []string{"the", "hobbit"}) {
		t.Errorf("Terms() = %v", q.Terms())
	}

	want := []struct {
		kind   Kind
		field  string
		weight float64
	}{
		{Phrase, book.FieldTitle, 8},
		{Phrase, book.FieldAuthors, 8},
		{Exact, book.FieldPublisherExact, 5},
		{Prefix, book.FieldTitle, 3},
		{Prefix, book.FieldPublisher, 3},
		{Fuzzy, book.FieldAuthors, 2},
		{Term, book.FieldTags, 2},
		{Term, book.FieldDescription, 1},
		{Term, book.FieldAnnotation, 1},
	}
	for _, w := range want {
		c, ok := q.Clause(w.kind, w.field)
		if !ok {
			t.Errorf("missing %s clause on %s", w.kind, w.field)
			continue
		}
		if c.Weight != w.weight {
			t.Errorf("%s on %s: weight %v, want %v", w.kind, w.field, c.Weight, w.weight)
		}
	}
	if len(q.Clauses()) != 6 {
		t.Errorf("expected 6 clauses, got %d", len(q.Clauses()))
	}
}

func TestNew_PhraseOutweighsFuzzy(t *testing.T) {
	q := New("dune", ownerFilter(t), DefaultBoosts())
	phrase, _ := q.Clause(Phrase, book.FieldTitle)
	fuzzy, _ := q.Clause(Fuzzy, book.FieldTitle)
	if phrase.Weight <= fuzzy.Weight {
		t.Errorf("phrase weight %v must exceed fuzzy weight %v", phrase.Weight, fuzzy.Weight)
	}
}

func TestNew_ZeroWeightDropped(t *testing.T) {
	b := DefaultBoosts()
	b.Fuzzy = 0
	q := New("dune", ownerFilter(t), b)
	if _, ok := q.Clause(Fuzzy, book.FieldTitle); ok {
		t.Error("fuzzy clause should be omitted at zero weight")
	}
}

func TestNew_CarriesFilter(t *testing.T) {
	q := New("dune", ownerFilter(t), DefaultBoosts())
	if v, ok := q.Filters().Value(book.FieldOwnerID); !ok || v != "alice" {
		t.Errorf("owner filter = %q, %v", v, ok)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Harry Potter", []string{"harry", "potter"}},
		{"O'Reilly: 2nd-ed.", []string{"o", "reilly", "2nd", "ed"}},
		{"Война и мир", []string{"война", "и", "мир"}},
		{"  !! ", nil},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
