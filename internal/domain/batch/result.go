package batch

// ItemStatus is the processing outcome of a single import item.
type ItemStatus string

// Import item status values.
const (
	StatusOK ItemStatus = "ok"
	// StatusLexicalOnly marks a book stored without an embedding.
	StatusLexicalOnly ItemStatus = "lexical_only"
	StatusError       ItemStatus = "error"
)

// Result is the outcome of importing one book.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a result for a book stored with its embedding.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewLexicalOnly creates a result for a book stored without an embedding; err is the embedding failure.
func NewLexicalOnly(id string, err error) Result {
	return Result{id: id, status: StatusLexicalOnly, err: err}
}

// NewError creates a failed result; the book was not stored.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the book identifier (empty when the input had none and failed before one was assigned).
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Stored reports whether the book reached the store.
func (r Result) Stored() bool { return r.status != StatusError }

// Summary counts results by outcome.
type Summary struct {
	Imported    int
	LexicalOnly int
	Failed      int
}

// Summarize counts results by outcome. LexicalOnly books are also counted as Imported.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.status {
		case StatusOK:
			s.Imported++
		case StatusLexicalOnly:
			s.Imported++
			s.LexicalOnly++
		default:
			s.Failed++
		}
	}
	return s
}
