package filter

import (
	"fmt"

	"github.com/kailas-cloud/libris/internal/domain/book"
)

// MaxConditions is the maximum number of conditions in one expression.
const MaxConditions = 32

// Expression is a conjunction of exact tag matches applied as a mandatory pre-filter.
type Expression struct {
	must []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must ...Condition) (Expression, error) {
	if len(must) > MaxConditions {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditions)
	}
	return Expression{must: must}, nil
}

// ForOwner builds the owner-scoped expression every search runs with.
// A nil status leaves the reading status unconstrained.
func ForOwner(ownerID string, status *book.Status) (Expression, error) {
	if err := book.ValidateOwnerID(ownerID); err != nil {
		return Expression{}, fmt.Errorf("owner filter: %w", err)
	}
	owner, err := NewMatch(book.FieldOwnerID, ownerID)
	if err != nil {
		return Expression{}, fmt.Errorf("owner filter: %w", err)
	}
	must := []Condition{owner}
	if status != nil {
		st, err := NewMatch(book.FieldStatus, string(*status))
		if err != nil {
			return Expression{}, fmt.Errorf("status filter: %w", err)
		}
		must = append(must, st)
	}
	return NewExpression(must...)
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Value returns the match value for key, if the expression constrains it.
func (e Expression) Value(key string) (string, bool) {
	for _, c := range e.must {
		if c.key == key {
			return c.match, true
		}
	}
	return "", false
}

// Condition is a single exact tag match.
type Condition struct {
	key   string
	match string
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }
