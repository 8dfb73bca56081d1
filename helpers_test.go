package blog

import (
	"encoding/json"
	"testing"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com/", nil, "https://example.com/"},
		{"https://example.com", []string{"post"}, "https://example.com/post/"},
		{"https://example.com/blog", []string{"post"}, "https://example.com/blog/post/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestArticleURLs(t *testing.T) {
	if got := ArticleURL("https://example.com", 7); got != "https://example.com/post/?id=7" {
		t.Errorf("ArticleURL = %q", got)
	}
	if got := ShareImageURL("https://example.com/", 7); got != "https://example.com/post/share.png?id=7" {
		t.Errorf("ShareImageURL = %q", got)
	}
	if got := ArticleLink(7); got != "/post/?id=7" {
		t.Errorf("ArticleLink = %q", got)
	}
}

func TestArticleJsonLD(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "https://example.com"
	cfg.Author = "Site Author"
	a := Article{ID: 3, Title: "Grid", Excerpt: "Layouts", Date: "2024-01-10", Tags: []string{"css", "grid"}}

	var ld map[string]any
	if err := json.Unmarshal([]byte(ArticleJsonLD(a, cfg)), &ld); err != nil {
		t.Fatal(err)
	}
	if ld["@type"] != "BlogPosting" || ld["headline"] != "Grid" || ld["keywords"] != "css, grid" {
		t.Errorf("json-ld = %v", ld)
	}
	author, _ := ld["author"].(map[string]any)
	if author["name"] != "Site Author" {
		t.Errorf("author falls back to the site author, got %v", ld["author"])
	}
	if ld["url"] != "https://example.com/post/?id=3" {
		t.Errorf("url = %v", ld["url"])
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{" go ", "", "  ", "web"})
	if len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("FilterEmpty = %q", got)
	}
}
