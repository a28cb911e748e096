// Package featured marks the top-scored articles per news type.
package featured

import (
	"sort"

	"newsdash/internal/news"
)

// Select sorts articles by importance descending (most recent first on ties)
// and marks at most perTypeLimit articles per news type as featured. Runs
// strictly after dedup and link validation so invalid or duplicate articles
// never occupy a featured slot.
func Select(articles []news.Article, perTypeLimit int) []news.Article {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Importance != articles[j].Importance {
			return articles[i].Importance > articles[j].Importance
		}
		return articles[i].PublishedDate.After(articles[j].PublishedDate)
	})

	counts := map[string]int{}
	for i := range articles {
		t := articles[i].NewsType
		if counts[t] < perTypeLimit {
			articles[i].IsFeatured = true
			counts[t]++
		} else {
			articles[i].IsFeatured = false
		}
	}
	return articles
}
