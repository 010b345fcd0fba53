package mode

// Mode is the execution path selected for a search request.
type Mode string

// Search mode constants.
const (
	// Hybrid fuses lexical and semantic candidates; selected when a query embedding is present.
	Hybrid  Mode = "hybrid"
	Lexical Mode = "lexical"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Lexical
}

// ForEmbedding selects the mode from the presence of a query embedding.
func ForEmbedding(embedding []float32) Mode {
	if len(embedding) > 0 {
		return Hybrid
	}
	return Lexical
}
