package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
	"github.com/kailas-cloud/libris/internal/domain/search/mode"
	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	"github.com/kailas-cloud/libris/internal/logger"
	"github.com/kailas-cloud/libris/internal/metrics"
)

// Service runs the hybrid relevance pipeline over a book repository.
type Service struct {
	repo Repository
	cfg  Config
}

// New creates a search service.
func New(repo Repository, cfg Config) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Search executes the query in hybrid mode when it carries an embedding, lexical-only otherwise.
func (s *Service) Search(ctx context.Context, q *query.Query) (page result.Page, err error) {
	m := q.Mode()
	start := time.Now()
	defer func() { metrics.ObserveSearch(string(m), start, err) }()

	lq := lexical.New(q.Term(), q.Filters(), s.cfg.Boosts)

	if m == mode.Hybrid {
		return s.searchHybrid(ctx, q, &lq)
	}
	return s.searchLexical(ctx, q, &lq)
}

// searchLexical runs the scored page query and the count query concurrently.
func (s *Service) searchLexical(
	ctx context.Context, q *query.Query, lq *lexical.Query,
) (result.Page, error) {
	var (
		hits  []result.Hit
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hits, err = s.repo.SearchLexical(gctx, lq, q.Skip(), q.PageSize())
		if err != nil {
			return fmt.Errorf("search lexical: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountLexical(gctx, lq)
		if err != nil {
			return fmt.Errorf("count lexical: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return result.Page{}, err //nolint:wrapcheck // wrapped inside the group
	}

	metrics.ObserveStageCandidates(metrics.StageText, len(hits))
	return result.NewPage(itemsFromHits(hits), total, q.Page(), q.PageSize()), nil
}

// searchHybrid runs both stages concurrently, fuses by reciprocal rank and slices the requested page.
func (s *Service) searchHybrid(
	ctx context.Context, q *query.Query, lq *lexical.Query,
) (result.Page, error) {
	limit := s.cfg.CandidateMultiplier * q.PageSize()
	numCandidates := max(s.cfg.NumCandidates, limit)

	var (
		textHits, vectorHits []result.Hit
		semanticErr          error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		textHits, err = s.repo.SearchLexical(gctx, lq, 0, limit)
		if err != nil {
			return fmt.Errorf("search lexical: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vectorHits, err = s.repo.SearchSemantic(gctx, q.Embedding(), q.Filters(), limit, numCandidates)
		if err == nil {
			return nil
		}
		err = fmt.Errorf("search semantic: %w", err)
		if s.cfg.SemanticFailure == FailurePolicyDegrade {
			semanticErr = err
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return result.Page{}, err //nolint:wrapcheck // wrapped inside the group
	}

	if semanticErr != nil {
		logger.FromContext(ctx).Warn("semantic stage failed, answering lexical-only",
			zap.Error(semanticErr))
		metrics.IncSearchDegraded()
		vectorHits = nil
	}

	metrics.ObserveStageCandidates(metrics.StageText, len(textHits))
	metrics.ObserveStageCandidates(metrics.StageVector, len(vectorHits))

	fused := fuse(textHits, vectorHits, s.cfg.Fusion)
	metrics.ObserveStageCandidates(metrics.StageFused, len(fused))

	items := paginate(fused, q.Skip(), q.PageSize())
	return result.NewPage(items, len(fused), q.Page(), q.PageSize()), nil
}
