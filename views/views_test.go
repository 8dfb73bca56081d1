package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"

	"github.com/vishyfortheworld/blog"
)

var testCfg = blog.SiteConfig{
	Name:        "Test Blog",
	URL:         "https://example.com",
	Description: "Notes",
	Author:      "Ada",
	Tagline:     "A Test Production",
}

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func sampleArticles(n int) []blog.Article {
	out := make([]blog.Article, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = blog.Article{
			ID:       id,
			Title:    "Article " + string(rune('A'+i)),
			Excerpt:  "excerpt",
			Category: "development",
			Date:     "2024-01-15",
			ReadTime: "3 min read",
			Tags:     []string{"go"},
			Link:     blog.ArticleLink(id),
		}
	}
	return out
}

func TestHomeRendersCardsAndFilters(t *testing.T) {
	v := New(testCfg)
	listing := blog.BuildListing(sampleArticles(8), blog.Query{})
	doc := render(t, v.Home(blog.HomePage{
		Listing:    listing,
		Categories: []string{"development", "reflection"},
		Prefs:      blog.Preferences{Theme: blog.ThemeDark},
		CSRFToken:  "tok",
	}))

	if got := doc.Find("html").AttrOr("data-theme", ""); got != "dark" {
		t.Errorf("data-theme = %q, want dark", got)
	}
	if got := doc.Find(`meta[name="csrf-token"]`).AttrOr("content", ""); got != "tok" {
		t.Errorf("csrf meta = %q, want tok", got)
	}
	if n := doc.Find("#grid .card").Length(); n != blog.PostsPerPage {
		t.Errorf("cards = %d, want %d", n, blog.PostsPerPage)
	}
	more := doc.Find("#grid .load-more")
	if more.Length() != 1 {
		t.Fatalf("expected a load more link")
	}
	if got := more.AttrOr("hx-get", ""); got != "/?page=1&partial=grid" {
		t.Errorf("load more hx-get = %q", got)
	}
	if n := doc.Find(".filter-tags .tag").Length(); n != 3 {
		t.Errorf("filter tags = %d, want 3 (all + 2)", n)
	}
	if got := doc.Find(".filter-tags .tag.active").Text(); got != "all" {
		t.Errorf("active filter = %q, want all", got)
	}
	if got := doc.Find("#search").AttrOr("hx-trigger", ""); !strings.Contains(got, "delay:300ms") {
		t.Errorf("search trigger = %q, want a 300ms delay", got)
	}
	style := doc.Find(".card .card-image").First().AttrOr("style", "")
	if !strings.Contains(style, blog.CardGradient(1)) {
		t.Errorf("card style = %q, want gradient for id 1", style)
	}
}

func TestHomeGridEmptyState(t *testing.T) {
	v := New(testCfg)
	listing := blog.BuildListing(sampleArticles(3), blog.Query{Search: "nothing matches"})
	doc := render(t, v.HomeGrid(listing))
	if doc.Find(".empty-state").Length() != 1 {
		t.Error("expected empty state")
	}
	if doc.Find(".load-more").Length() != 0 {
		t.Error("empty listing should not offer load more")
	}
}

func TestPostPage(t *testing.T) {
	v := New(testCfg)
	article := blog.Article{
		ID:       42,
		Title:    "Hello <World>",
		Category: "reflection",
		Date:     "2025-10-12",
		ReadTime: "2 min read",
		Author:   "Ada",
		Tags:     []string{"life"},
		Content:  "## Heading\n\nSome *text* and <script>alert(1)</script>.",
	}
	url := blog.ArticleURL(testCfg.URL, article.ID)
	doc := render(t, v.Post(blog.PostPage{
		Article: article,
		Likes:   7,
		Prefs:   blog.Preferences{Liked: true, FontSize: blog.FontLarge, Theme: blog.ThemeDark},
		Related: sampleArticles(2),
		Share:   blog.NewShareLinks(article.Title, url),
		Meta:    blog.PageMeta{Title: article.Title, URL: url},
	}))

	if got := doc.Find("h1").Text(); got != "Hello <World>" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find(".post-meta time").Text(); got != "October 12, 2025" {
		t.Errorf("date = %q", got)
	}
	if got := doc.Find("#likeCount").Text(); got != "7" {
		t.Errorf("like count = %q, want 7", got)
	}
	if got := doc.Find("#likeButton").AttrOr("aria-pressed", ""); got != "true" {
		t.Errorf("like pressed = %q, want true", got)
	}
	if !doc.Find("#articleContent").HasClass("font-large") {
		t.Error("article body should carry the font-large class")
	}
	if doc.Find("#articleContent h2#heading").Length() != 1 {
		t.Error("markdown heading with id not rendered")
	}
	if doc.Find("#articleContent script").Length() != 0 {
		t.Error("raw script tags must not be rendered")
	}
	if got := doc.Find("style").Text(); !strings.Contains(got, "--bg-primary-rgb: 0, 0, 0;") {
		t.Errorf("post style = %q", got)
	}
	if n := doc.Find(".related .card").Length(); n != 2 {
		t.Errorf("related cards = %d, want 2", n)
	}
	tw := doc.Find(".share-button.twitter").AttrOr("href", "")
	if !strings.HasPrefix(tw, "https://twitter.com/intent/tweet?") {
		t.Errorf("twitter href = %q", tw)
	}
	if got := doc.Find(`script[type="application/ld+json"]`).Text(); !strings.Contains(got, `"BlogPosting"`) {
		t.Errorf("json-ld = %q", got)
	}
	if !doc.Find("body").HasClass("post-page") {
		t.Error("body should have post-page class")
	}
}

func TestAdminPages(t *testing.T) {
	v := New(testCfg)

	login := render(t, v.AdminLogin(true, "tok"))
	if login.Find(".error").Length() != 1 {
		t.Error("expected login error message")
	}
	if got := login.Find(`input[name="_csrf"]`).AttrOr("value", ""); got != "tok" {
		t.Errorf("csrf field = %q", got)
	}

	dash := render(t, v.AdminDashboard(sampleArticles(3), "saved", "tok"))
	if n := dash.Find("tbody tr").Length(); n != 3 {
		t.Errorf("rows = %d, want 3", n)
	}
	if got := dash.Find(".notice").Text(); got != "saved" {
		t.Errorf("notice = %q", got)
	}

	form := render(t, v.AdminForm(blog.Article{ID: 5, Title: "T", Tags: []string{"a", "b"}}, "tok"))
	if got := form.Find(`input[name="id"]`).AttrOr("value", ""); got != "5" {
		t.Errorf("id field = %q", got)
	}
	if got := form.Find(`input[name="tags"]`).AttrOr("value", ""); got != "a, b" {
		t.Errorf("tags field = %q", got)
	}
	blank := render(t, v.AdminForm(blog.Article{}, "tok"))
	if blank.Find(`input[name="id"]`).Length() != 0 {
		t.Error("new article form should not carry an id")
	}
}

func TestErrorPages(t *testing.T) {
	v := New(testCfg)
	if got := render(t, v.NotFound()).Find("h1").Text(); got != "404" {
		t.Errorf("not found heading = %q", got)
	}
	if got := render(t, v.ServerError()).Find("title").Text(); !strings.Contains(got, "Something went wrong") {
		t.Errorf("error title = %q", got)
	}
}

func TestURLHelpers(t *testing.T) {
	q := blog.Query{Search: "go", Category: "development", Page: 1}
	if got := MoreURL(q, true); got != "/?category=development&page=2&partial=grid&q=go" {
		t.Errorf("MoreURL = %q", got)
	}
	if got := CategoryURL("all", q); got != "/?q=go" {
		t.Errorf("CategoryURL(all) = %q", got)
	}
	if got := CategoryURL("reflection", blog.Query{}); got != "/?category=reflection" {
		t.Errorf("CategoryURL(reflection) = %q", got)
	}
}
