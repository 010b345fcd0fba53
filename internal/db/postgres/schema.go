package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/libris/internal/db"
)

// keyColumn holds the full document key.
const keyColumn = "doc_key"

const createKVTableSQL = `CREATE TABLE IF NOT EXISTS ` + kvTable + ` (
	key TEXT PRIMARY KEY,
	value BYTEA NOT NULL,
	expires_at TIMESTAMPTZ
)`

var tableReplacer = strings.NewReplacer(":", "_", "-", "_")

// tableName maps an index name to its table; identifiers are validated by db.IndexDefinition.
func tableName(index string) string {
	return tableReplacer.Replace(index)
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// CreateIndex creates the table, its filter and full-text indexes, and the HNSW index in one transaction.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	stmts, err := buildCreateStatements(def)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err //nolint:wrapcheck // wrapped below
			}
		}
		return nil
	})
	if err != nil {
		if isPgCode(err, codeDuplicateTable) {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateTable, Err: err}
	}
	return nil
}

// DropIndex drops the index table with its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	if !db.IsValidIdentifier(name) {
		return errors.New("index name contains invalid characters")
	}
	if _, err := s.pool.Exec(ctx, "DROP TABLE "+ident(tableName(name))); err != nil {
		if isPgCode(err, codeUndefinedTable) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropTable, Err: err}
	}
	return nil
}

// IndexExists reports whether the index table exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", ident(tableName(name))).Scan(&exists)
	if err != nil {
		return false, &db.Error{Op: db.OpTableInfo, Err: err}
	}
	return exists, nil
}

func buildCreateStatements(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	table := tableName(def.Name)
	cols := []string{ident(keyColumn) + " TEXT PRIMARY KEY"}
	var indexes []string

	for _, f := range def.Fields {
		col := ident(f.Name)
		switch f.Type {
		case db.IndexFieldText:
			cols = append(cols, col+" TEXT")
			indexes = append(indexes, fmt.Sprintf(
				"CREATE INDEX %s ON %s USING GIN (to_tsvector('simple', coalesce(%s, '')))",
				ident(table+"_"+f.Name+"_fts"), ident(table), col))
		case db.IndexFieldTag:
			cols = append(cols, col+" TEXT")
			indexes = append(indexes, fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
				ident(table+"_"+f.Name+"_idx"), ident(table), col))
		case db.IndexFieldNumeric:
			cols = append(cols, col+" DOUBLE PRECISION")
		case db.IndexFieldStored:
			cols = append(cols, col+" TEXT")
		case db.IndexFieldVector:
			cols = append(cols, fmt.Sprintf("%s vector(%d)", col, f.VectorDim))
			indexes = append(indexes, buildHNSWIndex(table, f))
		default:
			return nil, errors.New("unknown field type")
		}
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		"CREATE EXTENSION IF NOT EXISTS fuzzystrmatch",
		fmt.Sprintf("CREATE TABLE %s (%s)", ident(table), strings.Join(cols, ", ")),
	}
	return append(stmts, indexes...), nil
}

// buildHNSWIndex needs pgvector 0.8.0 or later at query time for hnsw.iterative_scan.
func buildHNSWIndex(table string, f db.IndexField) string {
	var with []string
	if f.VectorM > 0 {
		with = append(with, fmt.Sprintf("m = %d", f.VectorM))
	}
	if f.VectorEFConstruct > 0 {
		with = append(with, fmt.Sprintf("ef_construction = %d", f.VectorEFConstruct))
	}

	stmt := fmt.Sprintf("CREATE INDEX %s ON %s USING hnsw (%s %s)",
		ident(table+"_"+f.Name+"_hnsw"), ident(table), ident(f.Name), opClass(f.VectorDistance))
	if len(with) > 0 {
		stmt += " WITH (" + strings.Join(with, ", ") + ")"
	}
	return stmt
}

func opClass(d db.DistanceMetric) string {
	switch d {
	case db.DistanceL2:
		return "vector_l2_ops"
	case db.DistanceIP:
		return "vector_ip_ops"
	default:
		return "vector_cosine_ops"
	}
}

// distanceOp returns the pgvector operator matching the index operator class.
func distanceOp(d db.DistanceMetric) string {
	switch d {
	case db.DistanceL2:
		return "<->"
	case db.DistanceIP:
		return "<#>"
	default:
		return "<=>"
	}
}
