// Package news holds the canonical article record produced by the ingestion
// pipeline and the normalization from raw feed items into it.
package news

import "time"

// Sentiment of an article derived from keyword polarity counts.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// LinkStatus tracks the outcome of the liveness probe for an article URL.
type LinkStatus string

const (
	LinkUnchecked LinkStatus = "unchecked"
	LinkValid     LinkStatus = "valid"
	LinkInvalid   LinkStatus = "invalid"
)

// Article is the unit persisted by the pipeline. SourceURL is the natural key
// for dedup and upsert and must stay stable across fetches of the same item.
type Article struct {
	Title         string
	Summary       string
	Content       string
	Source        string
	SourceURL     string
	PublishedDate time.Time
	NewsType      string
	Location      string
	SubLocation   string
	Language      string
	Category      string
	Tags          []string
	Companies     []string
	Sentiment     Sentiment
	ImageURL      string
	Author        string
	IsFeatured    bool
	Importance    int
	LinkStatus    LinkStatus
	LastValidated time.Time
	AlternateURL  string

	// Engagement counts, only populated by listing APIs that expose them.
	Upvotes  int
	Comments int
}

// FeedError error types.
const (
	ErrTypeFetchFailure = "fetch_failure"
	ErrTypeFatalError   = "fatal_error"
)

// FeedError records a failed source fetch for observability. Append-only, the
// pipeline never reads it back.
type FeedError struct {
	SourceName string
	SourceURL  string
	Message    string
	ErrorType  string
	OccurredAt time.Time
}
