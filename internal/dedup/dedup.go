// Package dedup filters candidate articles against already-persisted URLs.
package dedup

import "newsdash/internal/news"

// Filter drops candidates whose SourceURL is in existing (the store's lookback
// window) and collapses intra-batch collisions, keeping the first encountered
// in iteration order. Pure function, no I/O.
func Filter(candidates []news.Article, existing map[string]struct{}) []news.Article {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for url := range existing {
		seen[url] = struct{}{}
	}

	out := make([]news.Article, 0, len(candidates))
	for _, a := range candidates {
		if _, dup := seen[a.SourceURL]; dup {
			continue
		}
		seen[a.SourceURL] = struct{}{}
		out = append(out, a)
	}
	return out
}
