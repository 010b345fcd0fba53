package search

import (
	"sort"

	"github.com/kailas-cloud/libris/internal/domain/search/result"
)

// contribution is the reciprocal-rank score of a 0-based rank under constant k.
func contribution(rank, k int) float64 {
	return 1.0 / float64(rank+k+1)
}

// fuse merges text and vector hits by asymmetric Reciprocal Rank Fusion.
// score(d) = 1/(rank_text(d)+k_text+1) + 1/(rank_vector(d)+k_vector+1); a missing stage adds 0.
// Duplicates within a stage keep their first position. Equal scores keep text-first insertion order.
func fuse(text, vector []result.Hit, cfg FusionConfig) []result.Fused {
	merged := make(map[string]*result.Fused, len(text)+len(vector))
	order := make([]string, 0, len(text)+len(vector))

	for _, c := range result.Candidates(text) {
		if _, seen := merged[c.DocumentID]; seen {
			continue
		}
		merged[c.DocumentID] = &result.Fused{
			Book:       text[c.Rank].Book,
			Score:      contribution(c.Rank, cfg.TextK),
			TextRank:   c.Rank,
			VectorRank: -1,
		}
		order = append(order, c.DocumentID)
	}

	for _, c := range result.Candidates(vector) {
		f, ok := merged[c.DocumentID]
		if !ok {
			f = &result.Fused{Book: vector[c.Rank].Book, TextRank: -1, VectorRank: -1}
			merged[c.DocumentID] = f
			order = append(order, c.DocumentID)
		}
		if f.VectorRank >= 0 {
			continue
		}
		f.VectorRank = c.Rank
		f.Score += contribution(c.Rank, cfg.VectorK)
	}

	out := make([]result.Fused, 0, len(order))
	for _, id := range order {
		out = append(out, *merged[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
