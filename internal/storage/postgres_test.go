package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdash/internal/news"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestExistingURLsSince(t *testing.T) {
	since := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)

	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT source_url FROM news WHERE created_at >= \$1`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"source_url"}).
			AddRow("https://example.com/a").
			AddRow("https://example.com/b"))

	urls, err := store.ExistingURLsSince(context.Background(), since)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
	assert.Contains(t, urls, "https://example.com/a")
	assert.Contains(t, urls, "https://example.com/b")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistingURLsSinceQueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT source_url FROM news`).
		WillReturnError(errors.New("connection reset"))

	_, err := store.ExistingURLsSince(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query existing urls")
}

func TestUpsertArticlesCountsOnlyNewRows(t *testing.T) {
	store, mock := newMockStore(t)

	articles := []news.Article{
		{Title: "fresh", SourceURL: "https://example.com/1", PublishedDate: time.Now()},
		{Title: "conflict", SourceURL: "https://example.com/2", PublishedDate: time.Now()},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO news .* ON CONFLICT \(source_url\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO news .* ON CONFLICT \(source_url\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, err := store.UpsertArticles(context.Background(), articles)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted, "conflicting row must not count as inserted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertArticlesRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO news`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := store.UpsertArticles(context.Background(), []news.Article{
		{Title: "doomed", SourceURL: "https://example.com/x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert article https://example.com/x")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertArticlesEmptyBatch(t *testing.T) {
	store, mock := newMockStore(t)

	inserted, err := store.UpsertArticles(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet(), "empty batch must not touch the database")
}

func TestPurgeOlderThan(t *testing.T) {
	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	store, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM news WHERE published_date < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 17))

	n, err := store.PurgeOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogFeedErrorSwallowsFailure(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO feed_errors`).
		WillReturnError(errors.New("table missing"))

	// Must not panic or propagate the failure.
	store.LogFeedError(context.Background(), news.FeedError{
		SourceName: "Broken Feed",
		SourceURL:  "https://example.com/feed.xml",
		Message:    "fetch failed",
		ErrorType:  news.ErrTypeFetchFailure,
		OccurredAt: time.Now(),
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	require.NoError(t, NewWithDB(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
