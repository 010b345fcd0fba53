package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Hybrid, Lexical}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "semantic", "keyword", "HYBRID"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestForEmbedding(t *testing.T) {
	if got := ForEmbedding(nil); got != Lexical {
		t.Errorf("nil embedding: got %q, want lexical", got)
	}
	if got := ForEmbedding([]float32{}); got != Lexical {
		t.Errorf("empty embedding: got %q, want lexical", got)
	}
	if got := ForEmbedding([]float32{0.1}); got != Hybrid {
		t.Errorf("non-empty embedding: got %q, want hybrid", got)
	}
}
