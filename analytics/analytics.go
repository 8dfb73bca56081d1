// Package analytics records privacy-friendly reading events: article views,
// reading-progress milestones and like toggles. Reader ids are salted and
// hashed before they are stored.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// salt holds the per-installation random salt for reader hashing, protected by sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for reader hashing.
// Must be called once at startup before any events are recorded.
func InitSalt(store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting("hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting("hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

func getSalt() string {
	return salt.value
}

// HashReader creates a salted SHA-256 hash of a reader id.
func HashReader(readerID string) string {
	h := sha256.New()
	h.Write([]byte(getSalt() + readerID))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Kind identifies what an Event records.
type Kind string

const (
	KindView    Kind = "view"
	KindReading Kind = "reading"
	KindLike    Kind = "like"
	KindUnlike  Kind = "unlike"
)

// Event is a single recorded reader action.
type Event struct {
	ID         int64     `json:"-"`
	Kind       Kind      `json:"kind"`
	ArticleID  int64     `json:"article_id"`
	ReaderHash string    `json:"-"`
	Milestone  int       `json:"milestone,omitempty"` // reading events only
	Timestamp  time.Time `json:"timestamp"`
}

// ArticleStats aggregates events for one article over a period.
type ArticleStats struct {
	ArticleID      int64       `json:"article_id"`
	Views          int         `json:"views"`
	Readers        int         `json:"readers"`
	Milestones     map[int]int `json:"milestones"` // milestone -> distinct readers
	Likes          int         `json:"likes"`
	Unlikes        int         `json:"unlikes"`
	CompletionRate float64     `json:"completion_rate"` // readers at 100% / readers
}

// Summary is the stats report returned to admins.
type Summary struct {
	From     time.Time      `json:"from"`
	To       time.Time      `json:"to"`
	Articles []ArticleStats `json:"articles"`
}

// IsBot checks if the User-Agent is likely a bot/crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	bots := []string{
		"bot", "crawler", "spider", "crawl", "slurp", "scrape",
		"googlebot", "bingbot", "yandex", "baidu", "duckduckbot",
		"facebookexternalhit", "twitterbot", "linkedinbot",
		"ahrefsbot", "semrushbot", "mj12bot", "dotbot",
	}
	for _, bot := range bots {
		if strings.Contains(ua, bot) {
			return true
		}
	}
	return false
}

// ParsePeriod converts "7d", "30d", "90d" or "365d" into a day count,
// defaulting to 30.
func ParsePeriod(period string) int {
	switch period {
	case "7d":
		return 7
	case "90d":
		return 90
	case "365d":
		return 365
	default:
		return 30
	}
}

// TruncateDay returns midnight of t's day in t's location.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
