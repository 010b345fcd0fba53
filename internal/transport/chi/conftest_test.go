package chi

import (
	"context"
	"net/http"
	"testing"

	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/libris/internal/usecase/health"
)

type mockSearcher struct {
	page  result.Page
	err   error
	calls int
	last  *query.Query
}

func (m *mockSearcher) Search(_ context.Context, q *query.Query) (result.Page, error) {
	m.calls++
	m.last = q
	if m.err != nil {
		return result.Page{}, m.err
	}
	return m.page, nil
}

type mockEmbedder struct {
	vec   []float32
	calls int
	term  string
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, term string) []float32 {
	m.calls++
	m.term = term
	return m.vec
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testPage(t *testing.T) result.Page {
	t.Helper()
	b, err := book.New(book.Attributes{
		ID: "dune", OwnerID: "alice", Title: "Dune", Authors: "Frank Herbert",
		Tags: []string{"sci-fi"}, Status: book.Read,
	})
	if err != nil {
		t.Fatalf("book.New: %v", err)
	}
	return result.NewPage([]result.Item{{Book: b, Score: 0.516}}, 1, 1, 50)
}

func newTestRouter(s *Server, keys map[string]string) http.Handler {
	return NewRouter(s, RouterOptions{APIKeys: keys})
}
