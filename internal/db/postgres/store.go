package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/libris/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// PostgreSQL error codes the store maps to db sentinels.
const (
	codeDuplicateTable = "42P07"
	codeUndefinedTable = "42P01"
	codeQueryCanceled  = "57014"
)

const kvTable = "libris_kv"

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	DSN      string
	MaxConns int32
}

// Store implements db.Store over PostgreSQL with the pgvector and fuzzystrmatch extensions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a pooled PostgreSQL store. Connections are established lazily.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady blocks until the database answers, then ensures the key-value table exists.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	if err := db.WaitForReady(ctx, s, timeout); err != nil {
		return err //nolint:wrapcheck // already wrapped
	}
	if _, err := s.pool.Exec(ctx, createKVTableSQL); err != nil {
		return &db.Error{Op: db.OpCreateTable, Err: err}
	}
	return nil
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// queryError wraps a failed read, marking statement_timeout cancellations as timeouts.
func queryError(op string, err error) error {
	if pgconn.Timeout(err) || isPgCode(err, codeQueryCanceled) {
		err = fmt.Errorf("%w: %w", db.ErrTimeout, err)
	}
	return &db.Error{Op: op, Err: err}
}
