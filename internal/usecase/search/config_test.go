package search

import "testing"

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Fusion.TextK != 1 || cfg.Fusion.VectorK != 60 {
		t.Errorf("fusion = %+v", cfg.Fusion)
	}
	if cfg.NumCandidates != 100 || cfg.CandidateMultiplier != 2 {
		t.Errorf("candidates = %d x%d", cfg.NumCandidates, cfg.CandidateMultiplier)
	}
	if cfg.Boosts.Phrase != 8 || cfg.Boosts.Fuzzy != 2 {
		t.Errorf("boosts = %+v", cfg.Boosts)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative k", func(c *Config) { c.Fusion.TextK = -1 }},
		{"zero candidates", func(c *Config) { c.NumCandidates = 0 }},
		{"zero multiplier", func(c *Config) { c.CandidateMultiplier = 0 }},
		{"unknown policy", func(c *Config) { c.SemanticFailure = "retry" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
