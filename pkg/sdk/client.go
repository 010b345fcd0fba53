package libris

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libris/internal/db"
	dbPostgres "github.com/kailas-cloud/libris/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/libris/internal/db/redis"
	"github.com/kailas-cloud/libris/internal/domain"
	dombatch "github.com/kailas-cloud/libris/internal/domain/batch"
	"github.com/kailas-cloud/libris/internal/domain/book"
	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	bookrepo "github.com/kailas-cloud/libris/internal/repository/book"
	"github.com/kailas-cloud/libris/internal/repository/catalog"
	batchuc "github.com/kailas-cloud/libris/internal/usecase/batch"
	embeddinguc "github.com/kailas-cloud/libris/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/libris/internal/usecase/health"
	searchuc "github.com/kailas-cloud/libris/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second

	driverRedis    = "redis"
	driverPostgres = "postgres"
)

// Internal interfaces, replaced by mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, q *query.Query) (result.Page, error)
}

type importUseCase interface {
	Import(ctx context.Context, items []book.Attributes) ([]dombatch.Result, error)
}

type queryEmbedder interface {
	EmbedQuery(ctx context.Context, term string) []float32
}

type indexManager interface {
	Ensure(ctx context.Context) (bool, error)
	Drop(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
}

// Client is the libris SDK entry point.
type Client struct {
	store     db.Store
	index     indexManager
	searchSvc searchUseCase
	importSvc importUseCase
	embedder  queryEmbedder
	healthSvc healthUseCase
	obs       *observer
}

// New creates a libris Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("libris: database required (use WithRedis or WithPostgres)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("libris: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("libris: create redis store: %w", err)
		}
		return s, nil
	case driverPostgres:
		s, err := dbPostgres.NewStore(ctx, dbPostgres.Config{DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("libris: create postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("libris: unknown driver %q", cfg.driver)
	}
}

func indexOptions(cfg *clientConfig) catalog.Options {
	o := catalog.DefaultOptions()
	if cfg.indexName != "" {
		o.Name = cfg.indexName
	}
	if cfg.vectorDimensions > 0 {
		o.Dimensions = cfg.vectorDimensions
	}
	if cfg.hnswM > 0 {
		o.M = cfg.hnswM
	}
	if cfg.hnswEFConstruct > 0 {
		o.EFConstruction = cfg.hnswEFConstruct
	}
	return o
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	def, err := catalog.Definition(indexOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("libris: %w", err)
	}
	manager := catalog.NewManager(store, def)
	repo := bookrepo.New(store, def)

	// Pass nil interfaces, not typed nils, when no embedder is configured.
	var (
		domEmb     domain.Embedder
		embChecker healthuc.EmbeddingChecker
		batchEmb   batchuc.Embedder
	)
	if cfg.embedder != nil {
		adapter := &embedderAdapter{inner: cfg.embedder}
		domEmb, batchEmb, embChecker = adapter, adapter, adapter
	}

	sc := searchuc.DefaultConfig()
	if cfg.degradeSemantic {
		sc.SemanticFailure = searchuc.FailurePolicyDegrade
	}

	importSvc := batchuc.New(repo, batchEmb, zap.NewNop())
	if cfg.importWorkers > 0 {
		importSvc = importSvc.WithWorkers(cfg.importWorkers)
	}

	return &Client{
		store:     store,
		index:     manager,
		searchSvc: searchuc.New(repo, sc),
		importSvc: importSvc,
		embedder:  embeddinguc.NewQueryEmbedder(domEmb),
		healthSvc: healthuc.New(store, manager, embChecker),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the book index if it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "ensure_index", start, err) }()

	if _, err = c.index.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// DropIndex removes the book index. Stored books are kept by Redis and dropped by PostgreSQL.
func (c *Client) DropIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "drop_index", start, err) }()

	if err = c.index.Drop(ctx); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Search ranks an owner's books against a term.
// The term is embedded when an embedder is configured; an embedding failure
// falls back to lexical search.
func (c *Client) Search(ctx context.Context, p SearchParams) (page SearchPage, err error) {
	start := time.Now()
	defer func() {
		c.obs.observe(ctx, "search", start, err, slog.String("mode", string(page.Mode)))
	}()

	params := query.Params{
		SearchTerm: p.Term,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Status:     string(p.Status),
		OwnerID:    p.OwnerID,
	}
	q, err := query.New(params)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	if !p.LexicalOnly {
		params.Embedding = p.Embedding
		if len(params.Embedding) == 0 && c.embedder != nil {
			params.Embedding = c.embedder.EmbedQuery(ctx, q.Term())
		}
		if len(params.Embedding) > 0 {
			if q, err = query.New(params); err != nil {
				return SearchPage{}, fmt.Errorf("search: %w", err)
			}
		}
	}

	res, err := c.searchSvc.Search(ctx, &q)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}
	page = fromPage(&res, SearchMode(q.Mode()))
	c.obs.searched(string(page.Mode))
	return page, nil
}

// Import stores books, embedding them when an embedder is configured.
// It reports one result per book in input order; a failed book does not stop the others.
func (c *Client) Import(ctx context.Context, books []Book) (results []ImportResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "import", start, err, slog.Int("books", len(books))) }()

	items := make([]book.Attributes, len(books))
	for i := range books {
		items[i] = toAttributes(&books[i])
	}

	res, err := c.importSvc.Import(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return fromImportResults(res), nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// HealthCheck forwards to the wrapped embedder when it supports health checks.
func (a *embedderAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedder health: %w", err)
		}
	}
	return nil
}
