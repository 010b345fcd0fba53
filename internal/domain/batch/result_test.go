package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("dune")
	if r.ID() != "dune" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Status() != StatusOK || !r.Stored() {
		t.Errorf("Status() = %q, Stored() = %v", r.Status(), r.Stored())
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewLexicalOnly(t *testing.T) {
	err := errors.New("provider down")
	r := NewLexicalOnly("dune", err)
	if r.Status() != StatusLexicalOnly {
		t.Errorf("Status() = %q", r.Status())
	}
	if !r.Stored() {
		t.Error("lexical-only book is stored")
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("title is required")
	r := NewError("", err)
	if r.Status() != StatusError || r.Stored() {
		t.Errorf("Status() = %q, Stored() = %v", r.Status(), r.Stored())
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		NewOK("a"),
		NewOK("b"),
		NewLexicalOnly("c", errors.New("timeout")),
		NewError("d", errors.New("bad")),
	})
	if s.Imported != 3 || s.LexicalOnly != 1 || s.Failed != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("summary = %+v", s)
	}
}
