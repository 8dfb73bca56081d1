package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"
)

// Store provides database operations for analytics.
type Store struct {
	db *sql.DB
}

// NewStore creates a new analytics store.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create analytics dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			article_id INTEGER NOT NULL,
			reader_hash TEXT NOT NULL,
			milestone INTEGER NOT NULL DEFAULT 0,
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_events_article ON events(article_id, kind);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

// migrate applies incremental schema migrations based on a version stored in the settings table.
func (s *Store) migrate() error {
	verStr, err := s.GetSetting("schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	version := 0
	if verStr != "" {
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}
	if version < currentSchemaVersion {
		version = currentSchemaVersion
	}
	return s.SetSetting("schema_version", strconv.Itoa(version))
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Record stores an event. A zero timestamp is replaced with the current time.
func (s *Store) Record(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO events (kind, article_id, reader_hash, milestone, timestamp) VALUES (?, ?, ?, ?, ?)`,
		string(e.Kind), e.ArticleID, e.ReaderHash, e.Milestone, e.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("record %s event: %w", e.Kind, err)
	}
	return nil
}

// RecordView stores a page view of an article by a reader.
func (s *Store) RecordView(ctx context.Context, articleID int64, readerID string) error {
	return s.Record(ctx, Event{Kind: KindView, ArticleID: articleID, ReaderHash: HashReader(readerID)})
}

// RecordReading stores a reading milestone reached by a reader.
func (s *Store) RecordReading(ctx context.Context, articleID int64, readerID string, milestone int) error {
	return s.Record(ctx, Event{Kind: KindReading, ArticleID: articleID, ReaderHash: HashReader(readerID), Milestone: milestone})
}

// RecordLike stores a like or unlike toggle.
func (s *Store) RecordLike(ctx context.Context, articleID int64, readerID string, liked bool) error {
	kind := KindUnlike
	if liked {
		kind = KindLike
	}
	return s.Record(ctx, Event{Kind: kind, ArticleID: articleID, ReaderHash: HashReader(readerID)})
}

// Summary aggregates events between from (inclusive) and to (exclusive),
// one entry per article, ordered by views descending then article id.
func (s *Store) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT article_id, kind, milestone, COUNT(*), COUNT(DISTINCT reader_hash)
		FROM events
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY article_id, kind, milestone`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	byArticle := make(map[int64]*ArticleStats)
	get := func(id int64) *ArticleStats {
		st, ok := byArticle[id]
		if !ok {
			st = &ArticleStats{ArticleID: id, Milestones: make(map[int]int)}
			byArticle[id] = st
		}
		return st
	}
	for rows.Next() {
		var (
			articleID        int64
			kind             string
			milestone, count int
			distinct         int
		)
		if err := rows.Scan(&articleID, &kind, &milestone, &count, &distinct); err != nil {
			return nil, err
		}
		st := get(articleID)
		switch Kind(kind) {
		case KindView:
			st.Views += count
		case KindReading:
			st.Milestones[milestone] += distinct
		case KindLike:
			st.Likes += count
		case KindUnlike:
			st.Unlikes += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	readers, err := s.distinctReaders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &Summary{From: from, To: to, Articles: make([]ArticleStats, 0, len(byArticle))}
	for id, st := range byArticle {
		st.Readers = readers[id]
		if st.Readers > 0 {
			st.CompletionRate = float64(st.Milestones[100]) / float64(st.Readers)
		}
		out.Articles = append(out.Articles, *st)
	}
	sort.Slice(out.Articles, func(i, j int) bool {
		if out.Articles[i].Views != out.Articles[j].Views {
			return out.Articles[i].Views > out.Articles[j].Views
		}
		return out.Articles[i].ArticleID < out.Articles[j].ArticleID
	})
	return out, nil
}

// distinctReaders counts readers per article who viewed or scrolled it.
func (s *Store) distinctReaders(ctx context.Context, from, to time.Time) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT article_id, COUNT(DISTINCT reader_hash)
		FROM events
		WHERE timestamp >= ? AND timestamp < ? AND kind IN (?, ?)
		GROUP BY article_id`, from.UTC(), to.UTC(), string(KindView), string(KindReading))
	if err != nil {
		return nil, fmt.Errorf("query readers: %w", err)
	}
	defer rows.Close()
	out := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

// CleanupOldEvents deletes events older than retentionDays.
func (s *Store) CleanupOldEvents(retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	res, err := s.db.Exec(`DELETE FROM events WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup events: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler runs CleanupOldEvents on the given cron schedule
// (e.g. "@daily") and returns a function that stops the scheduler.
func (s *Store) StartCleanupScheduler(schedule string, retentionDays int, onErr func(error)) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.CleanupOldEvents(retentionDays); err != nil && onErr != nil {
			onErr(err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule cleanup %q: %w", schedule, err)
	}
	c.Start()
	return func() {
		<-c.Stop().Done()
	}, nil
}
