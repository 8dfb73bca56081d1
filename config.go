package blog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// SiteConfig holds all configuration for the blog.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name (default "Vishrut's Blog")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"description"` // Site description for RSS and meta tags
	Author      string `koanf:"author"`      // Default article author
	Tagline     string `koanf:"tagline"`     // Second branding line on share cards

	Addr         string `koanf:"addr"`          // Listen address (default ":3000")
	DatabasePath string `koanf:"database_path"` // SQLite path (default "data/blog.db")

	AnalyticsEnabled      bool   `koanf:"analytics_enabled"`       // Record reading milestones and likes
	AnalyticsDatabasePath string `koanf:"analytics_database_path"` // default "data/analytics.db"
	AnalyticsRetention    int    `koanf:"analytics_retention"`     // days, default 365

	AdminPassword string `koanf:"admin_password"` // Enables /admin/ when set
	SessionSecret string `koanf:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `koanf:"cookie_secure"`  // Set true for HTTPS

	ArticleCacheTTL time.Duration `koanf:"article_cache_ttl"` // default 5min
	LogLevel        string        `koanf:"log_level"`         // debug, info, warn, error
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() SiteConfig {
	cfg := SiteConfig{AnalyticsEnabled: true}
	cfg.setDefaults()
	return cfg
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Vishrut's Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Tagline == "" {
		c.Tagline = "A Vatsa Production"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetention <= 0 {
		c.AnalyticsRetention = 365
	}
	if c.ArticleCacheTTL == 0 {
		c.ArticleCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports configuration the server cannot start without.
func (c SiteConfig) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("blog: SessionSecret is required")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("blog: SessionSecret must be at least 16 characters")
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c SiteConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnvPrefix is the prefix of environment overrides, e.g. BLOG_SESSION_SECRET.
const EnvPrefix = "BLOG_"

// LoadConfig reads configuration from the YAML file at path (skipped when it
// does not exist), then overlays BLOG_* environment variables.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return SiteConfig{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return SiteConfig{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default JSON slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSeed replaces the embedded sample articles.
func WithSeed(articles []Article) Option {
	return func(a *App) {
		a.seed = articles
	}
}
