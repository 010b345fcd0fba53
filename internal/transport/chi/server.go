package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/libris/internal/domain"
	"github.com/kailas-cloud/libris/internal/domain/search/query"
	"github.com/kailas-cloud/libris/internal/domain/search/result"
	"github.com/kailas-cloud/libris/internal/logger"
	healthuc "github.com/kailas-cloud/libris/internal/usecase/health"
)

// maxBodyBytes bounds POST bodies: a search term plus an embedding of a few thousand floats.
const maxBodyBytes = 1 << 20

// Searcher runs the search pipeline.
type Searcher interface {
	Search(ctx context.Context, q *query.Query) (result.Page, error)
}

// QueryEmbedder embeds search terms; nil means the term is searched lexical-only.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, term string) []float32
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the book search API.
type Server struct {
	search        Searcher
	embedder      QueryEmbedder
	health        HealthChecker
	logger        *zap.Logger
	searchTimeout time.Duration
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. embedder may be nil.
func NewServer(search Searcher, embedder QueryEmbedder, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:   search,
		embedder: embedder,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, "unauthorized"),
		sentinelHandler(domain.ErrStoreTimeout, http.StatusGatewayTimeout, CodeStoreTimeout, "search failed"),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable, "search failed"),
	}
	return s
}

// WithSearchTimeout bounds each search request; zero keeps only the client's deadline.
func (s *Server) WithSearchTimeout(d time.Duration) *Server {
	if d > 0 {
		s.searchTimeout = d
	}
	return s
}

// SearchBooksGet handles GET /v1/books/search?q=&page=&pageSize=&status=&semantic=.
func (s *Server) SearchBooksGet(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	req := SearchRequest{
		SearchTerm: v.Get("q"),
		Status:     v.Get("status"),
	}
	if req.SearchTerm == "" {
		req.SearchTerm = v.Get("searchTerm")
	}

	var err error
	if req.Page, err = intParam(v.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "page must be an integer")
		return
	}
	if req.PageSize, err = intParam(v.Get("pageSize")); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "pageSize must be an integer")
		return
	}
	if raw := v.Get("semantic"); raw != "" {
		semantic, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "semantic must be a boolean")
			return
		}
		req.Semantic = &semantic
	}

	s.searchBooks(w, r, &req)
}

// SearchBooksPost handles POST /v1/books/search with a JSON body, which may carry a precomputed embedding.
func (s *Server) SearchBooksPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.searchBooks(w, r, &req)
}

func (s *Server) searchBooks(w http.ResponseWriter, r *http.Request, req *SearchRequest) {
	ctx := r.Context()
	if s.searchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	owner := OwnerFromContext(ctx)
	if owner == "" {
		s.handleDomainError(ctx, w, domain.ErrUnauthorized)
		return
	}
	ctx = logger.WithFields(ctx, zap.String("owner_id", owner))

	params := query.Params{
		SearchTerm: req.SearchTerm,
		Page:       req.Page,
		PageSize:   req.PageSize,
		Status:     req.Status,
		OwnerID:    owner,
	}
	// Validate before spending an embedding call on a request that will be rejected.
	q, err := query.New(params)
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}

	if semanticEnabled(req) {
		params.Embedding = req.Embedding
		if len(params.Embedding) == 0 && s.embedder != nil {
			params.Embedding = s.embedder.EmbedQuery(ctx, q.Term())
		}
		if len(params.Embedding) > 0 {
			if q, err = query.New(params); err != nil {
				s.handleDomainError(ctx, w, err)
				return
			}
		}
	}

	page, err := s.search.Search(ctx, &q)
	if err != nil {
		s.handleDomainError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromPage(&page, string(q.Mode())))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func semanticEnabled(req *SearchRequest) bool {
	return req.Semantic == nil || *req.Semantic
}

func intParam(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err //nolint:wrapcheck // replaced by a fixed client message
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// invalidQueryHandler reports validation failures with their detail; they never carry store internals.
func invalidQueryHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeInvalidQuery, err.Error())
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error with a fixed message.
func sentinelHandler(sentinel error, status int, code, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContext(ctx)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
