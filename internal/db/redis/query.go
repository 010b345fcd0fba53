package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/libris/internal/db"
	"github.com/kailas-cloud/libris/internal/domain/search/filter"
	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
)

// minPrefixLen is the shortest term RediSearch expands as a prefix.
const minPrefixLen = 2

// buildTextQuery translates a boosted lexical query into FT.SEARCH syntax (DIALECT 2):
// the filter is intersected with a union of weighted clauses.
func buildTextQuery(q *lexical.Query) (string, error) {
	var clauses []string
	for _, c := range q.Clauses() {
		if expr := buildClause(q, c); expr != "" {
			clauses = append(clauses, expr)
		}
	}
	if len(clauses) == 0 {
		return "", fmt.Errorf("query %q has no searchable terms", q.Text())
	}

	union := "(" + strings.Join(clauses, " | ") + ")"
	if f := buildFilter(q.Filters()); f != "" {
		return f + " " + union, nil
	}
	return union, nil
}

func buildClause(q *lexical.Query, c lexical.Clause) string {
	terms := q.Terms()
	fields := "@" + strings.Join(c.Fields, "|")

	var expr string
	switch c.Kind {
	case lexical.Phrase:
		if len(terms) == 0 {
			return ""
		}
		expr = fmt.Sprintf(`%s:"%s"`, fields, strings.Join(terms, " "))
	case lexical.Exact:
		if q.Text() == "" {
			return ""
		}
		expr = fmt.Sprintf("%s:{%s}", fields, escapeTag(strings.ToLower(q.Text())))
	case lexical.Prefix:
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			if len([]rune(t)) >= minPrefixLen {
				parts = append(parts, t+"*")
			}
		}
		if len(parts) == 0 {
			return ""
		}
		expr = fmt.Sprintf("%s:(%s)", fields, strings.Join(parts, " "))
	case lexical.Fuzzy:
		// RediSearch has no fuzzy prefix length; terms not longer than it are matched exactly.
		parts := make([]string, 0, len(terms))
		for _, t := range terms {
			if len([]rune(t)) > lexical.PrefixLength {
				parts = append(parts, strings.Repeat("%", lexical.MaxEdits)+t+strings.Repeat("%", lexical.MaxEdits))
			}
		}
		if len(parts) == 0 {
			return ""
		}
		expr = fmt.Sprintf("%s:(%s)", fields, strings.Join(parts, " "))
	case lexical.Term:
		if len(terms) == 0 {
			return ""
		}
		expr = fmt.Sprintf("%s:(%s)", fields, strings.Join(terms, "|"))
	default:
		return ""
	}

	return fmt.Sprintf("(%s) => { $weight: %s; }", expr, strconv.FormatFloat(c.Weight, 'g', -1, 64))
}

// buildFilter translates the mandatory filter into an FT.SEARCH tag intersection.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(expr.Must()))
	for _, cond := range expr.Must() {
		parts = append(parts, fmt.Sprintf("@%s:{%s}", cond.Key(), escapeTag(cond.Match())))
	}
	return strings.Join(parts, " ")
}

// escapeTag quotes a value for a single-tag match on a field declared with db.TagSeparator.
func escapeTag(v string) string {
	return tagEscaper.Replace(db.CleanTag(v))
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
