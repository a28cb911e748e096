package metrics

import (
	"sync"
	"time"
)

// Metrics collects per-run pipeline counters for the monitoring endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched   int64
	SourcesFailed    int64
	ArticlesFetched  int64
	DuplicatesFound  int64
	LinksChecked     int64
	LinksInvalid     int64
	ArticlesInserted int64

	// Per news type
	FetchedByType  map[string]int
	InsertedByType map[string]int

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{
		FetchedByType:  make(map[string]int),
		InsertedByType: make(map[string]int),
		IsHealthy:      true,
	}
}

func (m *Metrics) RecordSourceFetched(newsType string, articles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
	m.ArticlesFetched += int64(articles)
	m.FetchedByType[newsType] += articles
}

func (m *Metrics) RecordSourceFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) RecordDuplicates(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFound += int64(n)
}

func (m *Metrics) RecordLinkChecks(checked, invalid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinksChecked += int64(checked)
	m.LinksInvalid += int64(invalid)
}

func (m *Metrics) RecordInserted(newsType string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesInserted += int64(n)
	m.InsertedByType[newsType] += n
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fetchedByType := make(map[string]int, len(m.FetchedByType))
	for k, v := range m.FetchedByType {
		fetchedByType[k] = v
	}
	insertedByType := make(map[string]int, len(m.InsertedByType))
	for k, v := range m.InsertedByType {
		insertedByType[k] = v
	}

	return map[string]interface{}{
		"sources_fetched":      m.SourcesFetched,
		"sources_failed":       m.SourcesFailed,
		"articles_fetched":     m.ArticlesFetched,
		"duplicates_found":     m.DuplicatesFound,
		"links_checked":        m.LinksChecked,
		"links_invalid":        m.LinksInvalid,
		"articles_inserted":    m.ArticlesInserted,
		"fetched_by_type":      fetchedByType,
		"inserted_by_type":     insertedByType,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
