// Package blog is a personal blog server built with Go, Echo and templ.
// It serves an article listing with search, category filters and "load more"
// paging, an article page with likes, bookmarks, font sizes, themes, reading
// progress and share cards, plus RSS, a sitemap and a small admin area.
//
// Pages are rendered by the templ components supplied in ViewFuncs; the
// blog package owns handlers, middleware, persistence and reader state.
package blog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/vishyfortheworld/blog/analytics"
)

// DefaultArticleID is shown when the detail page gets a missing or unknown id.
const DefaultArticleID int64 = 1

// ViewFuncs holds the templ components the handlers render.
type ViewFuncs struct {
	Home           func(page HomePage) templ.Component
	HomeGrid       func(listing Listing) templ.Component
	Post           func(page PostPage) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(articles []Article, message string, csrfToken string) templ.Component
	AdminForm      func(article Article, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App wires together the store, cache, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ArticleCache
	Views  ViewFuncs
	Logger *slog.Logger

	apiLimiter     *RateLimiter
	loginLimiter   *RateLimiter
	analyticsStore *analytics.Store
	stopCleanup    func()
	customRoutes   []func(*App)
	staticDir      string
	seed           []Article
	initialized    bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}
	return a
}

// Init opens the stores, seeds the sample articles and registers middleware
// and routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blog: init store: %w", err)
	}
	a.Store = store

	if a.seed == nil {
		a.seed, err = LoadSeed(EmbeddedAssets)
		if err != nil {
			return fmt.Errorf("blog: load seed: %w", err)
		}
	}
	added, err := SeedStore(a.Store, a.seed)
	if err != nil {
		return fmt.Errorf("blog: seed store: %w", err)
	}
	if added > 0 {
		a.Logger.Info("seeded articles", "count", added)
	}

	a.Cache = NewArticleCache(a.Store, a.Config.ArticleCacheTTL)
	a.apiLimiter = NewRateLimiter(60, time.Minute)
	a.loginLimiter = NewRateLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		analyticsStore, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("blog: init analytics: %w", err)
		}
		a.analyticsStore = analyticsStore
		if err := analytics.InitSalt(analyticsStore); err != nil {
			return fmt.Errorf("blog: init analytics salt: %w", err)
		}
		stop, err := analyticsStore.StartCleanupScheduler("@daily", a.Config.AnalyticsRetention, func(err error) {
			a.Logger.Error("analytics cleanup failed", "error", err)
		})
		if err != nil {
			return fmt.Errorf("blog: schedule analytics cleanup: %w", err)
		}
		a.stopCleanup = stop
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves HTTP until the server is closed.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets; anything else under /public/ comes from staticDir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/styles.css", embeddedHandler)
	e.GET("/public/app.js", embeddedHandler)
	e.Static("/public", a.staticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/index.html", handleLegacyRedirect("/"))
	e.GET("/blog-post.html", handleLegacyRedirect("/post/"))
	e.GET("/post/", a.handlePost)
	e.GET("/post/share.png", a.handleShareImage)

	api := e.Group("/api", a.rateLimit(a.apiLimiter))
	api.POST("/blogs/like", a.handleLike)
	api.POST("/blogs/bookmark", a.handleBookmark)
	api.POST("/prefs/font-size", a.handleFontSize)
	api.POST("/prefs/theme", a.handleTheme)
	api.POST("/reading", a.handleReading)

	if a.Config.AdminPassword == "" {
		a.Logger.Info("admin disabled: no admin password configured")
		return
	}
	admin := e.Group("/admin")
	admin.GET("/", a.handleAdmin)
	admin.POST("/login/", a.handleAdminLogin)
	admin.POST("/logout/", handleAdminLogout)
	admin.GET("/article/new/", a.handleAdminNew, requireAdmin)
	admin.GET("/article/:id/", a.handleAdminArticle, requireAdmin)
	admin.POST("/save/", a.handleAdminSave, requireAdmin)
	admin.DELETE("/article/:id/", a.handleAdminDelete, requireAdmin)
	if a.analyticsStore != nil {
		analytics.NewHandler(a.analyticsStore, a.Logger).RegisterRoutes(admin, requireAdminJSON)
	}
}

// Close stops background jobs and closes the databases.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.apiLimiter != nil {
		a.apiLimiter.Stop()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.analyticsStore != nil {
		a.analyticsStore.Close()
	}
	return nil
}
