package blog

import (
	"sync"
	"time"
)

// ArticleCache is an in-memory, date-sorted copy of the article table with TTL.
type ArticleCache struct {
	mu         sync.RWMutex
	articles   []Article
	categories []string
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewArticleCache creates an ArticleCache backed by the given Store.
func NewArticleCache(s *Store, ttl time.Duration) *ArticleCache {
	return &ArticleCache{store: s, ttl: ttl}
}

func (c *ArticleCache) valid() bool {
	return c.articles != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *ArticleCache) load() error {
	if c.valid() {
		return nil
	}
	articles, err := c.store.ListArticles()
	if err != nil {
		return err
	}
	SortByDate(articles)
	if articles == nil {
		articles = []Article{}
	}
	c.articles = articles
	c.categories = Categories(articles)
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached articles and categories after ensuring the cache
// is fresh. It tries a read lock first and only takes the write lock to reload.
func (c *ArticleCache) ensureLoaded() ([]Article, []string, error) {
	c.mu.RLock()
	if c.valid() {
		articles, categories := c.articles, c.categories
		c.mu.RUnlock()
		return articles, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.articles, c.categories, nil
}

// All returns every article, newest first. Callers must not modify the slice.
func (c *ArticleCache) All() ([]Article, error) {
	articles, _, err := c.ensureLoaded()
	return articles, err
}

// Categories returns the distinct article categories.
func (c *ArticleCache) Categories() ([]string, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// Listing filters and paginates the cached articles.
func (c *ArticleCache) Listing(q Query) (Listing, error) {
	articles, _, err := c.ensureLoaded()
	if err != nil {
		return Listing{}, err
	}
	return BuildListing(articles, q), nil
}

// Get returns a single article by id from the cache.
func (c *ArticleCache) Get(id int64) (Article, error) {
	articles, _, err := c.ensureLoaded()
	if err != nil {
		return Article{}, err
	}
	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}
