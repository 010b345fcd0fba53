package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/libris/internal/db"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
)

// minPrefixLen matches the Redis backend so both rank the same candidates.
const minPrefixLen = 2

// params accumulates positional query arguments.
type params struct {
	args []any
}

func (p *params) add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// buildScoredSelect returns a filtered select of the return fields plus a "score" column:
// the sum of the weights of every matching clause.
func buildScoredSelect(q *db.TextQuery, p *params) (string, error) {
	if q.IndexName == "" {
		return "", fmt.Errorf("index name is required")
	}
	if q.Query == nil {
		return "", fmt.Errorf("query is required")
	}

	var terms []string
	for _, c := range q.Query.Clauses() {
		if expr := buildClause(q.Query, c, p); expr != "" {
			terms = append(terms, fmt.Sprintf("CASE WHEN %s THEN %s ELSE 0 END",
				expr, strconv.FormatFloat(c.Weight, 'g', -1, 64)))
		}
	}
	if len(terms) == 0 {
		return "", fmt.Errorf("query %q has no searchable terms", q.Query.Text())
	}

	sql := fmt.Sprintf("SELECT %s, (%s)::double precision AS score FROM %s",
		selectColumns(q.ReturnFields),
		strings.Join(terms, " + "),
		ident(tableName(q.IndexName)),
	)
	if where := buildFilter(q.Query.Filters(), p); where != "" {
		sql += " WHERE " + where
	}
	return sql, nil
}

// buildTextSearch wraps the scored select with ordering and paging.
// A positive score means at least one clause matched.
func buildTextSearch(q *db.TextQuery) (string, []any, error) {
	if q.Limit <= 0 {
		return "", nil, fmt.Errorf("limit must be positive")
	}
	p := &params{}
	inner, err := buildScoredSelect(q, p)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf(
		"SELECT * FROM (%s) AS s WHERE s.score > 0 ORDER BY s.score DESC, s.%s LIMIT %s OFFSET %s",
		inner, ident(keyColumn), p.add(q.Limit), p.add(max(q.Offset, 0)),
	)
	return sql, p.args, nil
}

func buildTextCount(q *db.TextQuery) (string, []any, error) {
	p := &params{}
	inner, err := buildScoredSelect(q, p)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("SELECT count(*) FROM (%s) AS s WHERE s.score > 0", inner)
	return sql, p.args, nil
}

func buildClause(q *lexical.Query, c lexical.Clause, p *params) string {
	terms := q.Terms()

	switch c.Kind {
	case lexical.Phrase:
		if len(terms) == 0 {
			return ""
		}
		// Word-adjacent match within one field, like a quoted RediSearch phrase.
		phrase := p.add(strings.Join(terms, " "))
		ors := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			ors = append(ors, fmt.Sprintf("to_tsvector('simple', coalesce(%s, '')) @@ phraseto_tsquery('simple', %s)",
				ident(f), phrase))
		}
		return "(" + strings.Join(ors, " OR ") + ")"

	case lexical.Exact:
		if q.Text() == "" {
			return ""
		}
		value := p.add(strings.ToLower(q.Text()))
		ors := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			ors = append(ors, fmt.Sprintf("lower(%s) = %s", ident(f), value))
		}
		return "(" + strings.Join(ors, " OR ") + ")"

	case lexical.Prefix:
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			if len([]rune(t)) >= minPrefixLen {
				parts = append(parts, t+":*")
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return fmt.Sprintf("to_tsvector('simple', %s) @@ to_tsquery('simple', %s)",
			concatFields(c.Fields), p.add(strings.Join(parts, " & ")))

	case lexical.Fuzzy:
		var ands []string
		for _, t := range terms {
			if len([]rune(t)) <= lexical.PrefixLength {
				continue
			}
			term := p.add(t)
			ands = append(ands, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM regexp_split_to_table(lower(%s), '[^[:alnum:]]+') AS w(word) "+
					"WHERE left(w.word, %d) = left(%s, %d) AND levenshtein(w.word, %s) <= %d)",
				concatFields(c.Fields), lexical.PrefixLength, term, lexical.PrefixLength, term, lexical.MaxEdits))
		}
		if len(ands) == 0 {
			return ""
		}
		return "(" + strings.Join(ands, " AND ") + ")"

	case lexical.Term:
		if len(terms) == 0 {
			return ""
		}
		return fmt.Sprintf("to_tsvector('simple', %s) @@ to_tsquery('simple', %s)",
			concatFields(c.Fields), p.add(strings.Join(terms, " | ")))
	}
	return ""
}

// buildKNNSearch orders by the pgvector distance operator so the HNSW index serves the query.
func buildKNNSearch(q *db.KNNQuery) (string, []any, error) {
	if q.IndexName == "" {
		return "", nil, fmt.Errorf("index name is required")
	}
	if q.VectorField == "" {
		return "", nil, fmt.Errorf("vector field is required")
	}
	if len(q.Vector) == 0 {
		return "", nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return "", nil, fmt.Errorf("k must be positive")
	}

	p := &params{}
	vec := p.add(pgvector.NewVector(q.Vector))
	col := ident(q.VectorField)
	dist := fmt.Sprintf("(%s %s %s)", col, distanceOp(q.Distance), vec)

	where := []string{col + " IS NOT NULL"}
	if f := buildFilter(q.Filters, p); f != "" {
		where = append([]string{f}, where...)
	}

	sql := fmt.Sprintf("SELECT %s, %s AS score FROM %s WHERE %s ORDER BY %s LIMIT %s",
		selectColumns(q.ReturnFields),
		similarity(q.Distance, dist),
		ident(tableName(q.IndexName)),
		strings.Join(where, " AND "),
		dist,
		p.add(q.K),
	)
	return sql, p.args, nil
}

// similarity converts a distance expression into a higher-is-better score.
func similarity(d db.DistanceMetric, dist string) string {
	switch d {
	case db.DistanceL2:
		return "1 / (1 + " + dist + ")"
	case db.DistanceIP:
		return "-" + dist
	default:
		return "1 - " + dist
	}
}

func buildFilter(expr filter.Expression, p *params) string {
	if expr.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(expr.Must()))
	for _, c := range expr.Must() {
		parts = append(parts, fmt.Sprintf("%s = %s", ident(c.Key()), p.add(c.Match())))
	}
	return strings.Join(parts, " AND ")
}

func selectColumns(fields []string) string {
	cols := []string{ident(keyColumn)}
	for _, f := range fields {
		cols = append(cols, fmt.Sprintf("coalesce(%s::text, '') AS %s", ident(f), ident(f)))
	}
	return strings.Join(cols, ", ")
}

func concatFields(fields []string) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = ident(f)
	}
	return "concat_ws(' ', " + strings.Join(cols, ", ") + ")"
}
