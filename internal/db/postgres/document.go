package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/libris/internal/db"
)

// PutDocument upserts the document row, replacing every column.
func (s *Store) PutDocument(ctx context.Context, def *db.IndexDefinition, doc *db.Document) error {
	sql, args, err := buildUpsert(def, doc)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

func buildUpsert(def *db.IndexDefinition, doc *db.Document) (string, []any, error) {
	if doc.Key == "" {
		return "", nil, fmt.Errorf("document key is required")
	}
	if def.Prefix != "" && !strings.HasPrefix(doc.Key, def.Prefix) {
		return "", nil, fmt.Errorf("key %q outside index prefix %q", doc.Key, def.Prefix)
	}
	for name := range doc.Fields {
		if f, ok := def.Field(name); !ok || f.Type == db.IndexFieldVector {
			return "", nil, fmt.Errorf("unknown field %q", name)
		}
	}

	cols := []string{ident(keyColumn)}
	placeholders := []string{"$1"}
	updates := make([]string, 0, len(def.Fields))
	args := []any{doc.Key}

	for _, f := range def.Fields {
		var v any
		switch f.Type {
		case db.IndexFieldVector:
			if len(doc.Vector) > 0 {
				if len(doc.Vector) != f.VectorDim {
					return "", nil, fmt.Errorf("vector has %d dimensions, index expects %d", len(doc.Vector), f.VectorDim)
				}
				v = pgvector.NewVector(doc.Vector)
			}
		case db.IndexFieldNumeric:
			if raw, ok := doc.Fields[f.Name]; ok && raw != "" {
				n, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return "", nil, fmt.Errorf("field %q: %w", f.Name, err)
				}
				v = n
			}
		default:
			if raw, ok := doc.Fields[f.Name]; ok {
				v = raw
			}
		}

		args = append(args, v)
		col := ident(f.Name)
		cols = append(cols, col)
		placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
		updates = append(updates, col+" = EXCLUDED."+col)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		ident(tableName(def.Name)),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		ident(keyColumn),
		strings.Join(updates, ", "),
	)
	return sql, args, nil
}

// Get retrieves an unexpired value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		"SELECT value FROM "+kvTable+" WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())",
		key,
	).Scan(&value)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, db.ErrKeyNotFound
	case err != nil:
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return value, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.setKV(ctx, key, value, nil)
}

// SetWithTTL stores a value that Get ignores once ttl has passed.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expires := time.Now().Add(ttl)
	return s.setKV(ctx, key, value, &expires)
}

func (s *Store) setKV(ctx context.Context, key string, value []byte, expires *time.Time) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO "+kvTable+" (key, value, expires_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at",
		key, value, expires,
	)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}
