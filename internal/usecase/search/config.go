package search

import (
	"fmt"

	"github.com/kailas-cloud/libris/internal/domain/search/lexical"
)

// FailurePolicy decides what a hybrid search does when the semantic stage fails.
type FailurePolicy string

// Semantic failure policies.
const (
	// FailurePolicyFail fails the whole request.
	FailurePolicyFail FailurePolicy = "fail"
	// FailurePolicyDegrade answers from the lexical stage alone.
	FailurePolicyDegrade FailurePolicy = "degrade"
)

// Default tunables.
const (
	DefaultTextK               = 1
	DefaultVectorK             = 60
	DefaultNumCandidates       = 100
	DefaultCandidateMultiplier = 2
)

// FusionConfig holds the per-stage reciprocal rank constants.
type FusionConfig struct {
	TextK   int
	VectorK int
}

// Config holds the search pipeline tunables.
type Config struct {
	Boosts        lexical.Boosts
	Fusion        FusionConfig
	NumCandidates int
	// CandidateMultiplier scales pageSize into the per-stage candidate limit.
	CandidateMultiplier int
	SemanticFailure     FailurePolicy
}

// DefaultConfig returns the standard catalog tuning.
func DefaultConfig() Config {
	return Config{
		Boosts:              lexical.DefaultBoosts(),
		Fusion:              FusionConfig{TextK: DefaultTextK, VectorK: DefaultVectorK},
		NumCandidates:       DefaultNumCandidates,
		CandidateMultiplier: DefaultCandidateMultiplier,
		SemanticFailure:     FailurePolicyFail,
	}
}

// Validate checks the tunables for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Fusion.TextK < 0 || c.Fusion.VectorK < 0 {
		return fmt.Errorf("fusion constants must be non-negative")
	}
	if c.NumCandidates <= 0 {
		return fmt.Errorf("num_candidates must be positive")
	}
	if c.CandidateMultiplier <= 0 {
		return fmt.Errorf("candidate_multiplier must be positive")
	}
	switch c.SemanticFailure {
	case FailurePolicyFail, FailurePolicyDegrade:
	default:
		return fmt.Errorf("unknown semantic failure policy %q", c.SemanticFailure)
	}
	return nil
}
