// Package linkcheck probes article URLs for liveness, with an archive
// snapshot lookup as fallback for broken links.
package linkcheck

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdash/internal/cache"
	"newsdash/internal/logger"
	"newsdash/internal/news"
)

const defaultArchiveAPI = "https://archive.org/wayback/available"

// Result is one URL's probe outcome, cached per URL for the TTL.
type Result struct {
	Status       news.LinkStatus
	AlternateURL string
	CheckedAt    time.Time
}

// Validator issues lightweight existence probes in bounded-concurrency
// batches. Safe for concurrent use.
type Validator struct {
	client     *http.Client
	cache      *cache.Cache
	cacheTTL   time.Duration
	batchSize  int
	archiveAPI string
	userAgent  string
}

func NewValidator(timeout, cacheTTL time.Duration, batchSize int) *Validator {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Validator{
		client:     &http.Client{Timeout: timeout},
		cache:      cache.New(),
		cacheTTL:   cacheTTL,
		batchSize:  batchSize,
		archiveAPI: defaultArchiveAPI,
		userAgent:  "Mozilla/5.0 (compatible; NewsAggregator/1.0)",
	}
}

// ValidateBatch resolves link status for every article still unchecked.
// Probes run batchSize at a time; a failed probe marks its own article and
// never aborts the batch.
func (v *Validator) ValidateBatch(articles []news.Article) []news.Article {
	g := new(errgroup.Group)
	g.SetLimit(v.batchSize)

	for i := range articles {
		if articles[i].LinkStatus != news.LinkUnchecked {
			continue
		}
		a := &articles[i]
		g.Go(func() error {
			res := v.Validate(a.SourceURL)
			a.LinkStatus = res.Status
			a.LastValidated = res.CheckedAt
			a.AlternateURL = res.AlternateURL
			return nil
		})
	}

	_ = g.Wait()
	return articles
}

// Validate probes one URL, consulting the TTL cache first. A URL that fails
// the probe but has an archived snapshot stays invalid with AlternateURL set;
// the consumer decides whether to use the snapshot.
func (v *Validator) Validate(rawURL string) Result {
	if cached, ok := v.cache.Get(rawURL); ok {
		if res, ok := cached.(Result); ok {
			return res
		}
	}

	res := Result{Status: news.LinkValid, CheckedAt: time.Now()}
	if err := v.probe(rawURL); err != nil {
		logger.Debug("link probe failed", "url", rawURL, "error", err)
		res.Status = news.LinkInvalid
		res.AlternateURL = v.archiveSnapshot(rawURL)
	}

	v.cache.Set(rawURL, res, v.cacheTTL)
	return res
}

func (v *Validator) probe(rawURL string) error {
	req, err := http.NewRequest(http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build probe: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	resp.Body.Close()

	// Redirects were followed, so anything below 400 means reachable.
	if resp.StatusCode >= 400 {
		return fmt.Errorf("probe: HTTP %d", resp.StatusCode)
	}
	return nil
}

type availability struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// archiveSnapshot asks the wayback availability API for the closest snapshot.
// Best-effort: any failure just means no alternate URL.
func (v *Validator) archiveSnapshot(rawURL string) string {
	resp, err := v.client.Get(v.archiveAPI + "?url=" + url.QueryEscape(rawURL))
	if err != nil {
		logger.Debug("archive lookup failed", "url", rawURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var avail availability
	if err := json.NewDecoder(resp.Body).Decode(&avail); err != nil {
		return ""
	}
	if avail.ArchivedSnapshots.Closest.Available {
		return avail.ArchivedSnapshots.Closest.URL
	}
	return ""
}

// CacheSize reports how many probe results are currently cached.
func (v *Validator) CacheSize() int {
	return v.cache.Len()
}
