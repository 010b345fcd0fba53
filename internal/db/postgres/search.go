package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/libris/internal/db"
)

// SearchText runs the boosted lexical query, best first.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	sql, args, err := buildTextSearch(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryError(db.OpSelect, err)
	}
	entries, err := scanEntries(rows, q.ReturnFields)
	if err != nil {
		return nil, queryError(db.OpSelect, err)
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// CountText counts every row matching the lexical query.
func (s *Store) CountText(ctx context.Context, q *db.TextQuery) (int, error) {
	sql, args, err := buildTextCount(q)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, queryError(db.OpSelect, err)
	}
	return int(n), nil
}

// SearchKNN runs an HNSW nearest-neighbour query with the knnSettings applied to the transaction.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	sql, args, err := buildKNNSearch(q)
	if err != nil {
		return nil, err
	}

	var entries []db.SearchEntry
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range knnSettings(q.NumCandidates) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err //nolint:wrapcheck // wrapped below
			}
		}
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		entries, err = scanEntries(rows, q.ReturnFields)
		return err
	})
	if err != nil {
		return nil, queryError(db.OpSelect, err)
	}
	sortByScore(entries)
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// knnSettings returns the transaction-local HNSW settings for a KNN query.
// The owner and status filters apply after the graph scan, so an iterative scan
// (pgvector 0.8.0 or later) keeps walking the graph until K rows pass them
// instead of returning only the owner's share of the first ef_search candidates.
// SET does not accept bind parameters.
func knnSettings(numCandidates int) []string {
	stmts := []string{"SET LOCAL hnsw.iterative_scan = relaxed_order"}
	if numCandidates > 0 {
		stmts = append(stmts, fmt.Sprintf("SET LOCAL hnsw.ef_search = %d", numCandidates))
	}
	return stmts
}

// sortByScore restores best-first order; relaxed_order scans may return rows slightly out of order.
func sortByScore(entries []db.SearchEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// scanEntries reads rows shaped as (doc_key, fields..., score).
func scanEntries(rows pgx.Rows, fields []string) ([]db.SearchEntry, error) {
	defer rows.Close()

	var entries []db.SearchEntry
	for rows.Next() {
		var (
			key   string
			score float64
		)
		values := make([]string, len(fields))
		dest := make([]any, 0, len(fields)+2)
		dest = append(dest, &key)
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &score)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		m := make(map[string]string, len(fields))
		for i, f := range fields {
			m[f] = values[i]
		}
		entries = append(entries, db.SearchEntry{Key: key, Score: score, Fields: m})
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(db.OpSelect, err)
	}
	return entries, nil
}
