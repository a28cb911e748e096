// Package app orchestrates one ingestion run: health check, fetch fan-out,
// normalization and classification, dedup, link validation, featured
// selection, persistence and cleanup.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdash/internal/classify"
	"newsdash/internal/config"
	"newsdash/internal/dedup"
	"newsdash/internal/featured"
	"newsdash/internal/feed"
	"newsdash/internal/linkcheck"
	"newsdash/internal/logger"
	"newsdash/internal/metrics"
	"newsdash/internal/news"
	"newsdash/internal/reddit"
	"newsdash/internal/retry"
	"newsdash/internal/sources"
)

// ErrHealthCheck marks the deliberate fail-fast exit when upstream health
// cannot be established. Distinct from per-source retry failures.
var ErrHealthCheck = errors.New("health check failed")

// Store is the narrow persistence interface the orchestrator drives.
type Store interface {
	Ping(ctx context.Context) error
	ExistingURLsSince(ctx context.Context, since time.Time) (map[string]struct{}, error)
	UpsertArticles(ctx context.Context, articles []news.Article) (int, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	LogFeedError(ctx context.Context, fe news.FeedError)
}

// Validator resolves link status for a batch of articles.
type Validator interface {
	ValidateBatch(articles []news.Article) []news.Article
}

// Summary reports what one run did, emitted even on degraded runs.
type Summary struct {
	FetchedByType  map[string]int
	Duplicates     int
	Inserted       int
	InsertedByType map[string]int
	FailedSources  []string
	Duration       time.Duration
}

// App wires the pipeline stages together.
type App struct {
	cfg        *config.Config
	store      Store
	fetcher    *feed.Fetcher
	reddit     *reddit.Client
	classifier *classify.Classifier
	validator  Validator
	srcs       []sources.Source
	stats      *metrics.Metrics
	probe      *http.Client
	now        func() time.Time
}

func New(cfg *config.Config, store Store, srcs []sources.Source) *App {
	retryCfg := retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		MaxDelay:    cfg.RetryMaxDelay,
		Backoff:     true,
	}

	var validator Validator
	if !cfg.SkipLinkValidation {
		validator = linkcheck.NewValidator(
			cfg.LinkCheckTimeout,
			time.Duration(cfg.LinkCacheTTLHours)*time.Hour,
			cfg.LinkCheckBatchSize,
		)
	}

	return &App{
		cfg:        cfg,
		store:      store,
		fetcher:    feed.NewFetcher(cfg.RequestTimeout, retryCfg),
		reddit:     reddit.NewClient(cfg.RequestTimeout, retryCfg),
		classifier: classify.New(classify.DefaultVocabulary()),
		validator:  validator,
		srcs:       srcs,
		stats:      metrics.Global,
		probe:      &http.Client{Timeout: cfg.RequestTimeout},
		now:        time.Now,
	}
}

// Run drives one full pipeline pass. Only two failures are fatal: the health
// check and the final upsert. Everything else degrades to partial results.
func (a *App) Run(ctx context.Context) (Summary, error) {
	start := a.now()
	summary := Summary{
		FetchedByType:  make(map[string]int),
		InsertedByType: make(map[string]int),
	}

	if err := a.healthCheck(ctx); err != nil {
		a.stats.SetError(err.Error())
		return summary, fmt.Errorf("%w: %v", ErrHealthCheck, err)
	}

	articles, failed := a.fetchAll(ctx)
	summary.FailedSources = failed
	for _, art := range articles {
		summary.FetchedByType[art.NewsType]++
	}
	logger.Info("fetch complete", "articles", len(articles), "failed_sources", len(failed))

	articles, duplicates := a.dedupe(ctx, articles)
	summary.Duplicates = duplicates
	a.stats.RecordDuplicates(duplicates)

	if a.validator != nil && len(articles) > 0 {
		articles = a.validator.ValidateBatch(articles)
		invalid := 0
		for _, art := range articles {
			if art.LinkStatus == news.LinkInvalid {
				invalid++
			}
		}
		a.stats.RecordLinkChecks(len(articles), invalid)
		logger.Info("link validation complete", "checked", len(articles), "invalid", invalid)
	}

	articles = featured.Select(articles, a.cfg.FeaturedPerType)

	inserted, err := a.store.UpsertArticles(ctx, articles)
	if err != nil {
		// Persistence is the run's whole value; surface loudly.
		a.stats.SetError(err.Error())
		a.report(summary)
		return summary, fmt.Errorf("persist batch: %w", err)
	}
	summary.Inserted = inserted
	for _, art := range articles {
		summary.InsertedByType[art.NewsType]++
		a.stats.RecordInserted(art.NewsType, 1)
	}

	a.cleanup(ctx)

	summary.Duration = a.now().Sub(start)
	a.stats.RecordRun(summary.Duration)
	a.report(summary)
	return summary, nil
}

// healthCheck probes store connectivity and one high-priority source. One
// retry after a fixed backoff, then the run is aborted rather than proceeding
// with unknown upstream health.
func (a *App) healthCheck(ctx context.Context) error {
	check := func() error {
		if err := a.store.Ping(ctx); err != nil {
			return fmt.Errorf("store ping: %w", err)
		}
		if src, ok := a.prioritySource(); ok {
			if err := a.probeSource(ctx, src); err != nil {
				return err
			}
		}
		return nil
	}

	err := check()
	if err == nil {
		return nil
	}
	logger.Warn("health check failed, retrying once", "backoff", a.cfg.HealthCheckBackoff, "error", err)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.cfg.HealthCheckBackoff):
	}
	return check()
}

func (a *App) prioritySource() (sources.Source, bool) {
	for _, src := range a.srcs {
		if src.Kind == sources.KindRSS && src.Priority >= 9 {
			return src, true
		}
	}
	return sources.Source{}, false
}

func (a *App) probeSource(ctx context.Context, src sources.Source) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src.URL, nil)
	if err != nil {
		return fmt.Errorf("probe %s: %w", src.Name, err)
	}
	resp, err := a.probe.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", src.Name, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("probe %s: HTTP %d", src.Name, resp.StatusCode)
	}
	return nil
}

// fetchAll fans out over the registry in fixed-size concurrent batches with a
// short pause between batches. Each task writes only its own slot; results are
// merged after the batch joins.
func (a *App) fetchAll(ctx context.Context) ([]news.Article, []string) {
	var all []news.Article
	var failed []string

	for i := 0; i < len(a.srcs); i += a.cfg.FetchConcurrency {
		end := i + a.cfg.FetchConcurrency
		if end > len(a.srcs) {
			end = len(a.srcs)
		}
		batch := a.srcs[i:end]
		results := make([][]news.Article, len(batch))
		errs := make([]error, len(batch))

		g := new(errgroup.Group)
		for j, src := range batch {
			j, src := j, src
			g.Go(func() error {
				results[j], errs[j] = a.fetchSource(ctx, src)
				return nil
			})
		}
		_ = g.Wait()

		for j, src := range batch {
			if errs[j] != nil {
				logger.Warn("source failed", "source", src.Name, "error", errs[j])
				failed = append(failed, src.Name)
				a.stats.RecordSourceFailed()
				a.store.LogFeedError(ctx, news.FeedError{
					SourceName: src.Name,
					SourceURL:  src.URL,
					Message:    errs[j].Error(),
					ErrorType:  news.ErrTypeFetchFailure,
					OccurredAt: a.now(),
				})
				continue
			}
			a.stats.RecordSourceFetched(src.NewsType, len(results[j]))
			all = append(all, results[j]...)
		}

		if end < len(a.srcs) {
			select {
			case <-ctx.Done():
				return all, failed
			case <-time.After(a.cfg.FetchBatchPause):
			}
		}
	}

	return all, failed
}

// fetchSource retrieves and processes one source. Feed order is preserved
// within the source; a malformed item is dropped, never the whole source.
func (a *App) fetchSource(ctx context.Context, src sources.Source) ([]news.Article, error) {
	now := a.now()

	if src.Kind == sources.KindReddit {
		articles, err := a.reddit.Fetch(ctx, src, now)
		if err != nil {
			return nil, err
		}
		out := make([]news.Article, 0, len(articles))
		for _, art := range articles {
			if a.classifySafe(&art, src, now) {
				out = append(out, art)
			}
		}
		return out, nil
	}

	items, err := a.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	out := make([]news.Article, 0, len(items))
	for _, item := range items {
		if item == nil || item.Link == "" {
			continue
		}
		art := news.Normalize(item, src, now)
		if a.classifySafe(&art, src, now) {
			out = append(out, art)
		}
	}
	return out, nil
}

// classifySafe drops the single article on a classification panic instead of
// letting one malformed item abort the source.
func (a *App) classifySafe(art *news.Article, src sources.Source, now time.Time) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("dropping malformed item", "source", src.Name, "url", art.SourceURL, "panic", r)
			ok = false
		}
	}()
	a.classifier.Classify(art, src, now)
	return true
}

// dedupe filters the batch against the store's lookback window. A failed
// window read degrades to intra-batch dedup only; the idempotent upsert still
// prevents duplicate rows.
func (a *App) dedupe(ctx context.Context, articles []news.Article) ([]news.Article, int) {
	since := a.now().Add(-time.Duration(a.cfg.LookbackHours) * time.Hour)
	existing, err := a.store.ExistingURLsSince(ctx, since)
	if err != nil {
		logger.Warn("existing-url window unavailable, dedup degraded", "error", err)
		existing = map[string]struct{}{}
	}

	unique := dedup.Filter(articles, existing)
	return unique, len(articles) - len(unique)
}

// cleanup purges articles past retention. Best-effort, failures are logged only.
func (a *App) cleanup(ctx context.Context) {
	cutoff := a.now().AddDate(0, 0, -a.cfg.RetentionDays)
	purged, err := a.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		logger.Warn("retention purge failed", "error", err)
		return
	}
	if purged > 0 {
		logger.Info("purged old articles", "rows", purged)
	}
}

func (a *App) report(s Summary) {
	for _, t := range sources.NewsTypes {
		if s.FetchedByType[t] == 0 && s.InsertedByType[t] == 0 {
			continue
		}
		logger.Info("run summary",
			"news_type", t,
			"fetched", s.FetchedByType[t],
			"inserted", s.InsertedByType[t],
		)
	}
	logger.Info("run complete",
		"duplicates", s.Duplicates,
		"inserted", s.Inserted,
		"failed_sources", s.FailedSources,
		"duration", s.Duration,
	)
}
