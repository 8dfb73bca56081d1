package blog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested article does not exist.
var ErrNotFound = errors.New("article not found")

// Store wraps a SQLite database holding articles and reader likes.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a like is written; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    category TEXT NOT NULL,
    date TEXT NOT NULL,
    read_time TEXT NOT NULL,
    tags TEXT NOT NULL,
    likes INTEGER NOT NULL DEFAULT 0,
    views INTEGER NOT NULL DEFAULT 0,
    featured INTEGER NOT NULL DEFAULT 0,
    author TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS likes (
    article_id INTEGER NOT NULL,
    reader_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (article_id, reader_id)
);
`)
	return err
}

const articleColumns = `id, title, excerpt, content, category, date, read_time, tags, likes, views, featured, author`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var tags string
	var featured int
	if err := row.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.Category, &a.Date,
		&a.ReadTime, &tags, &a.Likes, &a.Views, &featured, &a.Author); err != nil {
		return Article{}, err
	}
	a.Tags = ParseTags(tags)
	a.Featured = featured == 1
	a.Link = ArticleLink(a.ID)
	return a, nil
}

// ListArticles returns every article ordered by date descending.
func (s *Store) ListArticles() ([]Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticle returns a single article by id.
func (s *Store) GetArticle(id int64) (Article, error) {
	a, err := scanArticle(s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	return a, err
}

// SaveArticle upserts an article. Tags are normalized to lowercase.
func (s *Store) SaveArticle(a Article) error {
	normalized := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if tag := normalizeTag(t); tag != "" {
			normalized = append(normalized, tag)
		}
	}
	tagString := "," + strings.Join(normalized, ",") + ","
	featured := 0
	if a.Featured {
		featured = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO articles (`+articleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Excerpt, a.Content, a.Category, a.Date, a.ReadTime, tagString,
		a.Likes, a.Views, featured, a.Author)
	return err
}

// DeleteArticle removes an article and its likes.
func (s *Store) DeleteArticle(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM likes WHERE article_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM articles WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// SetLike records or clears a reader's like. Repeating the same value is a no-op.
func (s *Store) SetLike(articleID int64, readerID string, liked bool) error {
	if liked {
		_, err := s.db.Exec(`INSERT OR IGNORE INTO likes (article_id, reader_id, created_at) VALUES (?, ?, ?)`,
			articleID, readerID, time.Now().UTC().Format(time.RFC3339))
		return err
	}
	_, err := s.db.Exec(`DELETE FROM likes WHERE article_id = ? AND reader_id = ?`, articleID, readerID)
	return err
}

// IsLiked reports whether the reader has a like row for the article.
func (s *Store) IsLiked(articleID int64, readerID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE article_id = ? AND reader_id = ?`, articleID, readerID).Scan(&n)
	return n > 0, err
}

// LikeCount is the article's seeded like count plus every recorded reader like.
func (s *Store) LikeCount(articleID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`
SELECT a.likes + (SELECT COUNT(*) FROM likes l WHERE l.article_id = a.id)
FROM articles a WHERE a.id = ?`, articleID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("count likes for %d: %w", articleID, err)
	}
	return n, nil
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
