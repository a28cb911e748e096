// Package feed retrieves and parses RSS/Atom sources.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdash/internal/retry"
	"newsdash/internal/sources"
)

// Fetcher downloads one source's feed with a bounded timeout and retries.
type Fetcher struct {
	parser *gofeed.Parser
	retry  retry.Config
}

func NewFetcher(timeout time.Duration, retryCfg retry.Config) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "Mozilla/5.0 (compatible; NewsAggregator/1.0)"

	return &Fetcher{
		parser: parser,
		retry:  retryCfg,
	}
}

// Fetch returns the source's items, capped at the priority-derived limit.
// A feed that parses but yields zero items counts as a transient failure and
// is retried; after exhausting retries the error is returned for the caller
// to record, never to abort the run.
func (f *Fetcher) Fetch(ctx context.Context, src sources.Source) ([]*gofeed.Item, error) {
	var items []*gofeed.Item

	err := retry.WithRetry(ctx, f.retry, func() error {
		parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			return fmt.Errorf("parse feed %s: %w", src.URL, err)
		}
		if len(parsed.Items) == 0 {
			return fmt.Errorf("feed %s returned no items", src.URL)
		}
		items = parsed.Items
		return nil
	})
	if err != nil {
		return nil, err
	}

	if max := src.MaxItems(); len(items) > max {
		items = items[:max]
	}
	return items, nil
}
