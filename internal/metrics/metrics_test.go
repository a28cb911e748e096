package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndStats(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordSourceFetched("ai", 7)
	m.RecordSourceFetched("world", 5)
	m.RecordSourceFailed()
	m.RecordDuplicates(3)
	m.RecordLinkChecks(10, 2)
	m.RecordInserted("ai", 6)
	m.RecordRun(1500 * time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["sources_fetched"])
	assert.Equal(t, int64(1), stats["sources_failed"])
	assert.Equal(t, int64(12), stats["articles_fetched"])
	assert.Equal(t, int64(3), stats["duplicates_found"])
	assert.Equal(t, int64(10), stats["links_checked"])
	assert.Equal(t, int64(2), stats["links_invalid"])
	assert.Equal(t, int64(6), stats["articles_inserted"])
	assert.Equal(t, int64(1500), stats["last_run_duration_ms"])
	assert.Equal(t, true, stats["is_healthy"])

	byType := stats["fetched_by_type"].(map[string]int)
	assert.Equal(t, 7, byType["ai"])
	assert.Equal(t, 5, byType["world"])
}

func TestErrorFlipsHealth(t *testing.T) {
	t.Parallel()

	m := New()
	m.SetError("upstream down")
	stats := m.GetStats()
	assert.Equal(t, false, stats["is_healthy"])
	assert.Equal(t, "upstream down", stats["last_error"])

	m.RecordRun(time.Second)
	assert.Equal(t, true, m.GetStats()["is_healthy"], "a completed run restores health")
}

func TestStatsReturnsCopies(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordInserted("ai", 1)

	stats := m.GetStats()
	stats["inserted_by_type"].(map[string]int)["ai"] = 99

	assert.Equal(t, 1, m.GetStats()["inserted_by_type"].(map[string]int)["ai"])
}

func TestConcurrentRecording(t *testing.T) {
	t.Parallel()

	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordSourceFetched("ai", 1)
			m.GetStats()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.GetStats()["sources_fetched"])
}
