package search

import "github.com/kailas-cloud/libris/internal/domain/search/result"

// paginate applies skip/limit to the fused, sorted list.
func paginate(fused []result.Fused, skip, limit int) []result.Item {
	if skip >= len(fused) || limit <= 0 {
		return []result.Item{}
	}
	end := skip + limit
	if end > len(fused) {
		end = len(fused)
	}
	items := make([]result.Item, 0, end-skip)
	for _, f := range fused[skip:end] {
		items = append(items, result.Item{Book: f.Book, Score: f.Score})
	}
	return items
}

// itemsFromHits converts directly paginated lexical hits to page items.
func itemsFromHits(hits []result.Hit) []result.Item {
	items := make([]result.Item, 0, len(hits))
	for _, h := range hits {
		items = append(items, result.Item{Book: h.Book, Score: h.Score})
	}
	return items
}
