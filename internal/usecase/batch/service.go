package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/libris/internal/domain"
	dombatch "github.com/kailas-cloud/libris/internal/domain/batch"
	"github.com/kailas-cloud/libris/internal/domain/book"
)

// Service imports books: assigns missing ids, embeds each record and stores it.
// Records are processed concurrently on a bounded worker pool.
type Service struct {
	books   BookWriter
	embed   Embedder
	workers int
	newID   func() string
	logger  *zap.Logger
}

// New creates an import service. embed may be nil, in which case every book is stored lexical-only.
func New(books BookWriter, embed Embedder, logger *zap.Logger) *Service {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		books:   books,
		embed:   embed,
		workers: workers,
		newID:   uuid.NewString,
		logger:  logger,
	}
}

// WithWorkers configures the worker pool size.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Import stores every record and reports one result per input, in input order.
// An embedding failure does not fail the record: the book is stored without a vector.
func (s *Service) Import(ctx context.Context, items []book.Attributes) ([]dombatch.Result, error) {
	results := make([]dombatch.Result, len(items))
	if len(items) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.importOne(ctx, items[i])
		})
		if submitErr != nil {
			wg.Done()
			results[i] = dombatch.NewError(items[i].ID, fmt.Errorf("submit: %w", submitErr))
		}
	}
	wg.Wait()

	return results, nil
}

func (s *Service) importOne(ctx context.Context, a book.Attributes) dombatch.Result {
	if err := ctx.Err(); err != nil {
		return dombatch.NewError(a.ID, err)
	}
	if a.ID == "" {
		a.ID = s.newID()
	}

	b, err := book.New(a)
	if err != nil {
		return dombatch.NewError(a.ID, fmt.Errorf("%w: %w", domain.ErrInvalidBook, err))
	}

	var embedErr error
	if s.embed != nil {
		res, err := s.embed.Embed(ctx, b.EmbeddingText())
		if err != nil {
			embedErr = err
			s.logger.Warn("Storing book without embedding",
				zap.String("book_id", b.ID()),
				zap.Error(err),
			)
		} else {
			b = b.WithEmbedding(res.Embedding)
		}
	}

	if err := s.books.Put(ctx, &b); err != nil {
		return dombatch.NewError(b.ID(), fmt.Errorf("store book: %w", err))
	}

	if s.embed == nil || embedErr != nil {
		return dombatch.NewLexicalOnly(b.ID(), embedErr)
	}
	return dombatch.NewOK(b.ID())
}
