// Package storage is the persistence gateway: idempotent article upserts,
// the dedup lookback query, retention purges and the feed error log.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"newsdash/internal/logger"
	"newsdash/internal/news"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store manages pipeline persistence in PostgreSQL.
type Store struct {
	db *sql.DB
}

// New connects, verifies the connection and ensures the schema exists.
func New(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// NewWithDB wraps an existing connection. Used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS news (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT,
		content TEXT,
		source VARCHAR(100),
		source_url TEXT UNIQUE NOT NULL,
		published_date TIMESTAMPTZ NOT NULL,
		news_type VARCHAR(20) NOT NULL,
		location VARCHAR(100),
		sub_location VARCHAR(100),
		language VARCHAR(10) DEFAULT 'en',
		category VARCHAR(50),
		tags TEXT[] DEFAULT '{}',
		companies TEXT[] DEFAULT '{}',
		sentiment VARCHAR(10),
		image_url TEXT,
		author VARCHAR(200),
		is_featured BOOLEAN DEFAULT FALSE,
		importance_score INTEGER DEFAULT 5,
		link_status VARCHAR(10) DEFAULT 'unchecked',
		last_validated TIMESTAMPTZ,
		alternate_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_news_source_url ON news(source_url);
	CREATE INDEX IF NOT EXISTS idx_news_created_at ON news(created_at);
	CREATE INDEX IF NOT EXISTS idx_news_news_type ON news(news_type);
	CREATE INDEX IF NOT EXISTS idx_news_published_date ON news(published_date);

	CREATE TABLE IF NOT EXISTS feed_errors (
		id SERIAL PRIMARY KEY,
		source_name VARCHAR(100),
		source_url TEXT,
		message TEXT,
		error_type VARCHAR(20),
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping reports store connectivity, used by the orchestrator health check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ExistingURLsSince returns the source URLs persisted since the given instant.
// This is the dedup lookback window.
func (s *Store) ExistingURLsSince(ctx context.Context, since time.Time) (map[string]struct{}, error) {
	rows, err := psql.Select("source_url").
		From("news").
		Where(sq.GtOrEq{"created_at": since}).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query existing urls: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]struct{})
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls[u] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate urls: %w", err)
	}
	return urls, nil
}

// UpsertArticles writes the batch in one transaction, keyed on source_url.
// Conflicting rows are left untouched so re-running a pipeline with
// overlapping data never creates duplicates. Returns how many rows were
// actually inserted.
func (s *Store) UpsertArticles(ctx context.Context, articles []news.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, a := range articles {
		var lastValidated any
		if !a.LastValidated.IsZero() {
			lastValidated = a.LastValidated
		}

		res, err := psql.Insert("news").
			Columns(
				"title", "summary", "content", "source", "source_url",
				"published_date", "news_type", "location", "sub_location",
				"language", "category", "tags", "companies", "sentiment",
				"image_url", "author", "is_featured", "importance_score",
				"link_status", "last_validated", "alternate_url",
			).
			Values(
				a.Title, a.Summary, a.Content, a.Source, a.SourceURL,
				a.PublishedDate, a.NewsType, a.Location, a.SubLocation,
				a.Language, a.Category, pq.Array(a.Tags), pq.Array(a.Companies), string(a.Sentiment),
				a.ImageURL, a.Author, a.IsFeatured, a.Importance,
				string(a.LinkStatus), lastValidated, a.AlternateURL,
			).
			Suffix("ON CONFLICT (source_url) DO NOTHING").
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("upsert article %s: %w", a.SourceURL, err)
		}

		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return inserted, nil
}

// PurgeOlderThan deletes articles published before the cutoff. Best-effort
// retention cleanup, the caller only logs failures.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := psql.Delete("news").
		Where(sq.Lt{"published_date": cutoff}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge old articles: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows, nil
}

// LogFeedError appends a failed-fetch record. Best-effort: a write failure is
// logged locally and must never mask the error being recorded.
func (s *Store) LogFeedError(ctx context.Context, fe news.FeedError) {
	_, err := psql.Insert("feed_errors").
		Columns("source_name", "source_url", "message", "error_type", "occurred_at").
		Values(fe.SourceName, fe.SourceURL, fe.Message, fe.ErrorType, fe.OccurredAt).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		logger.Warn("failed to log feed error", "source", fe.SourceName, "error", err)
	}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
