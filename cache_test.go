package blog

import (
	"errors"
	"testing"
	"time"
)

func TestArticleCache(t *testing.T) {
	s := setupTestStore(t)
	for _, a := range catalog() {
		if err := s.SaveArticle(a); err != nil {
			t.Fatal(err)
		}
	}
	c := NewArticleCache(s, time.Minute)

	all, err := c.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 8 || all[0].ID != 1 {
		t.Errorf("All = %v, want 8 articles newest first", ids(all))
	}

	listing, err := c.Listing(Query{Category: "design"})
	if err != nil {
		t.Fatal(err)
	}
	if listing.Total != 2 {
		t.Errorf("design listing total = %d, want 2", listing.Total)
	}

	a, err := c.Get(4)
	if err != nil || a.Title != "Machine Learning in Production" {
		t.Errorf("Get(4) = %+v, %v", a, err)
	}
	if _, err := c.Get(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}

	cats, err := c.Categories()
	if err != nil || len(cats) != 3 {
		t.Errorf("Categories = %v, %v", cats, err)
	}
}

func TestArticleCacheInvalidate(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SaveArticle(testArticle(1)); err != nil {
		t.Fatal(err)
	}
	c := NewArticleCache(s, time.Hour)
	if all, _ := c.All(); len(all) != 1 {
		t.Fatalf("expected 1 article, got %d", len(all))
	}

	if err := s.SaveArticle(testArticle(2)); err != nil {
		t.Fatal(err)
	}
	if all, _ := c.All(); len(all) != 1 {
		t.Errorf("cache should still serve the stale copy, got %d", len(all))
	}
	c.Invalidate()
	if all, _ := c.All(); len(all) != 2 {
		t.Errorf("after Invalidate expected 2 articles, got %d", len(all))
	}
}

func TestArticleCacheEmptyStore(t *testing.T) {
	c := NewArticleCache(setupTestStore(t), time.Minute)
	all, err := c.All()
	if err != nil {
		t.Fatal(err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("All on empty store = %#v, want empty non-nil slice", all)
	}
}
