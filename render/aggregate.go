package render

import (
	"math/rand/v2"

	"metasearch/search"
)

// Aggregator flattens connector output and removes duplicate cards.
type Aggregator struct {
	// Shuffle permutes the flattened records before dedup. Nil keeps input
	// order, which tests rely on.
	Shuffle func([]search.SearchResult)
}

func NewAggregator() *Aggregator {
	return &Aggregator{Shuffle: shuffle}
}

func shuffle(results []search.SearchResult) {
	rand.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})
}

// Aggregate flattens lists, drops records without a url, shuffles, then
// admits a record only when both its url and its thumbnail are unseen. Only
// Reddit thumbnails are remembered as seen.
func (a *Aggregator) Aggregate(lists [][]search.SearchResult) []search.SearchResult {
	var flat []search.SearchResult
	for _, list := range lists {
		for _, r := range list {
			if r.Valid() {
				flat = append(flat, r)
			}
		}
	}

	if a.Shuffle != nil {
		a.Shuffle(flat)
	}

	seenURLs := make(map[string]struct{}, len(flat))
	seenThumbnails := make(map[string]struct{})
	admitted := make([]search.SearchResult, 0, len(flat))
	for _, r := range flat {
		if _, ok := seenURLs[r.URL]; ok {
			continue
		}
		if _, ok := seenThumbnails[r.Thumbnail]; ok {
			continue
		}

		seenURLs[r.URL] = struct{}{}
		if r.Source == search.Discussion {
			seenThumbnails[r.Thumbnail] = struct{}{}
		}
		admitted = append(admitted, r)
	}
	return admitted
}
