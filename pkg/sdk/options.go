package libris

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "redis" or "postgres"
	addrs    []string
	password string
	dsn      string

	embedder Embedder

	indexName        string
	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	degradeSemantic bool
	importWorkers   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis stores books in Redis with the Query Engine.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPostgres stores books in PostgreSQL with the pgvector and fuzzystrmatch extensions.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	})
}

// WithEmbedder enables semantic search and embeds books on import.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithIndex sets the book index name. Default: "books".
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
	})
}

// WithVectorDimensions sets the embedding dimension of the book index. Default: 1536.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithDegradedSemantic answers hybrid searches from the lexical stage
// when the semantic stage fails, instead of returning the error.
func WithDegradedSemantic() Option {
	return optionFunc(func(c *clientConfig) {
		c.degradeSemantic = true
	})
}

// WithImportWorkers sets how many books are imported concurrently.
func WithImportWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.importWorkers = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
