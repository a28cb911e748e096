// Package classify assigns category, tags, companies, sentiment and an
// importance score to normalized articles using keyword heuristics.
package classify

import (
	"sort"
	"strings"
	"time"

	"newsdash/internal/news"
	"newsdash/internal/sources"
)

const (
	baseScore = 5
	maxScore  = 10
)

// Classifier applies an immutable vocabulary to articles. Deterministic: the
// only time-dependent term is recency, computed against the passed-in now.
type Classifier struct {
	vocab *Vocabulary
}

func New(vocab *Vocabulary) *Classifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Classifier{vocab: vocab}
}

// Classify fills the article's category, tags, companies, sentiment,
// sub-location and importance score in place.
func (c *Classifier) Classify(a *news.Article, src sources.Source, now time.Time) {
	text := strings.ToLower(a.Title + " " + a.Content)

	a.Category = c.category(text, a.NewsType)
	a.Tags = c.tags(text, a.NewsType)
	a.Companies = c.companies(a.Title+" "+a.Content, src)
	a.Sentiment = c.sentiment(text)
	if sub := c.subLocation(text); sub != "" {
		a.SubLocation = sub
	}
	a.Importance = c.score(a, src, text, now)
}

// category returns the first category in the news type's ordered list with any
// keyword hit. First match wins, not best match.
func (c *Classifier) category(text, newsType string) string {
	ordered, ok := c.vocab.Categories[newsType]
	if !ok {
		ordered = c.vocab.Categories[sources.TypeAI]
	}
	for _, cat := range ordered {
		if containsAny(text, c.vocab.CategoryKeywords[cat]) {
			return cat
		}
	}
	return c.vocab.Fallback
}

func (c *Classifier) tags(text, newsType string) []string {
	seen := map[string]struct{}{}
	var tags []string
	add := func(t string) {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}

	if newsType == sources.TypeAI {
		for _, tag := range c.vocab.AITags {
			if strings.Contains(text, strings.ToLower(tag)) {
				add(tag)
			}
		}
	}

	for _, loc := range c.locationNames() {
		if containsAny(text, c.vocab.Locations[loc]) {
			add(strings.ToLower(loc))
		}
	}
	return tags
}

func (c *Classifier) companies(text string, src sources.Source) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, company := range c.vocab.Companies {
		if strings.Contains(text, company) || strings.Contains(lower, strings.ToLower(company)) {
			found = append(found, company)
		}
	}
	if src.Company != "" && !containsString(found, src.Company) {
		found = append(found, src.Company)
	}
	return found
}

// sentiment counts polarity words independently; one polarity must strictly
// exceed the other by more than the configured margin to leave neutral.
func (c *Classifier) sentiment(text string) news.Sentiment {
	pos := countHits(text, c.vocab.PositiveWords)
	neg := countHits(text, c.vocab.NegativeWords)

	switch {
	case pos > neg+c.vocab.SentimentMargin:
		return news.SentimentPositive
	case neg > pos+c.vocab.SentimentMargin:
		return news.SentimentNegative
	default:
		return news.SentimentNeutral
	}
}

func (c *Classifier) subLocation(text string) string {
	for _, loc := range c.locationNames() {
		if containsAny(text, c.vocab.Locations[loc]) {
			return loc
		}
	}
	return ""
}

func (c *Classifier) score(a *news.Article, src sources.Source, text string, now time.Time) int {
	score := baseScore

	if containsAny(text, c.vocab.HighImpactWords) {
		score += 3
	}
	if containsAny(text, c.vocab.MediumImpactWords) {
		score++
	}
	if containsAny(text, c.vocab.FinancialWords) {
		score += 2
	}

	// Engagement tiers, only meaningful for listing-API sources.
	switch {
	case a.Upvotes > 1000:
		score += 3
	case a.Upvotes > 500:
		score += 2
	case a.Upvotes > 100:
		score++
	}
	switch {
	case a.Comments > 100:
		score += 2
	case a.Comments > 50:
		score++
	}

	score += recencyBoost(now.Sub(a.PublishedDate), src.Kind)

	if a.SubLocation != "" {
		score++
	}
	if len(a.Companies) >= 2 {
		score++
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

// recencyBoost tiers differ by source kind: listing APIs surface items within
// minutes, feeds within hours.
func recencyBoost(age time.Duration, kind sources.Kind) int {
	if age < 0 {
		age = 0
	}
	if kind == sources.KindReddit {
		switch {
		case age < time.Hour:
			return 2
		case age < 6*time.Hour:
			return 1
		}
		return 0
	}
	switch {
	case age < 3*time.Hour:
		return 2
	case age < 12*time.Hour:
		return 1
	}
	return 0
}

// locationNames returns the micro-location table keys in stable order so tag
// output is deterministic across runs.
func (c *Classifier) locationNames() []string {
	names := make([]string, 0, len(c.vocab.Locations))
	for name := range c.vocab.Locations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
