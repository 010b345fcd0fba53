package libris

import (
	"context"

	dombatch "github.com/kailas-cloud/libris/internal/domain/batch"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/libris/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, q *query.Query) (result.Page, error)
}

func (m *mockSearchUC) Search(ctx context.Context, q *query.Query) (result.Page, error) {
	return m.searchFn(ctx, q)
}

// --- importUseCase mock ---

type mockImportUC struct {
	importFn func(ctx context.Context, items []book.Attributes) ([]dombatch.Result, error)
}

func (m *mockImportUC) Import(ctx context.Context, items []book.Attributes) ([]dombatch.Result, error) {
	return m.importFn(ctx, items)
}

// --- queryEmbedder mock ---

type mockQueryEmbedder struct {
	vec   []float32
	calls int
}

func (m *mockQueryEmbedder) EmbedQuery(_ context.Context, _ string) []float32 {
	m.calls++
	return m.vec
}

// --- indexManager mock ---

type mockIndex struct {
	exists  bool
	err     error
	ensured int
	dropped int
}

func (m *mockIndex) Ensure(_ context.Context) (bool, error) {
	m.ensured++
	return !m.exists, m.err
}

func (m *mockIndex) Drop(_ context.Context) error {
	m.dropped++
	return m.err
}

func (m *mockIndex) Exists(_ context.Context) (bool, error) { return m.exists, m.err }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type healthyEmbedder struct {
	mockEmbedder
	err error
}

func (h *healthyEmbedder) HealthCheck(_ context.Context) error { return h.err }

// --- helpers ---

func testClient(searchSvc searchUseCase, importSvc importUseCase, emb queryEmbedder) *Client {
	return &Client{
		index:     &mockIndex{},
		searchSvc: searchSvc,
		importSvc: importSvc,
		embedder:  emb,
		healthSvc: &mockHealthUC{},
	}
}

func onePage(q *query.Query) result.Page {
	b := book.Reconstruct(book.Attributes{
		ID: "dune", OwnerID: q.OwnerID(), Title: "Dune", Status: book.Read,
	}, nil)
	return result.NewPage([]result.Item{{Book: b, Score: 0.5}}, 1, q.Page(), q.PageSize())
}
