package blog

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testArticle(id int64) Article {
	return Article{
		ID:       id,
		Title:    "Test Article",
		Excerpt:  "A test article excerpt",
		Content:  "# Test Content\n\nThis is test content.",
		Category: "development",
		Date:     "2024-01-15",
		ReadTime: "1 min read",
		Tags:     []string{"Go", " Testing "},
		Likes:    10,
		Views:    100,
		Featured: true,
		Author:   "Ada",
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetArticle(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveArticle(testArticle(1)); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	got, err := s.GetArticle(1)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != "Test Article" || got.Category != "development" || got.Author != "Ada" {
		t.Errorf("unexpected article: %+v", got)
	}
	if !got.Featured || got.Likes != 10 || got.Views != 100 {
		t.Errorf("flags/counters not round-tripped: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("tags = %v, want [go testing]", got.Tags)
	}
	if got.Link != "/post/?id=1" {
		t.Errorf("link = %q", got.Link)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetArticle(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveArticleUpserts(t *testing.T) {
	s := setupTestStore(t)
	a := testArticle(1)
	if err := s.SaveArticle(a); err != nil {
		t.Fatal(err)
	}
	a.Title = "Updated"
	if err := s.SaveArticle(a); err != nil {
		t.Fatal(err)
	}
	all, err := s.ListArticles()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Title != "Updated" {
		t.Errorf("expected a single updated article, got %+v", all)
	}
}

func TestListArticlesOrder(t *testing.T) {
	s := setupTestStore(t)
	for _, a := range []Article{
		{ID: 1, Title: "old", Date: "2023-01-01"},
		{ID: 2, Title: "new", Date: "2024-06-01"},
		{ID: 3, Title: "same day", Date: "2024-06-01"},
	} {
		if err := s.SaveArticle(a); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.ListArticles()
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{3, 2, 1}
	for i, id := range want {
		if all[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(all), want)
		}
	}
}

func ids(articles []Article) []int64 {
	out := make([]int64, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func TestLikes(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SaveArticle(testArticle(1)); err != nil {
		t.Fatal(err)
	}

	if err := s.SetLike(1, "reader-a", true); err != nil {
		t.Fatal(err)
	}
	// Repeating a like is a no-op.
	if err := s.SetLike(1, "reader-a", true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLike(1, "reader-b", true); err != nil {
		t.Fatal(err)
	}
	n, err := s.LikeCount(1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 {
		t.Errorf("LikeCount = %d, want 12 (10 seeded + 2 readers)", n)
	}

	if err := s.SetLike(1, "reader-a", false); err != nil {
		t.Fatal(err)
	}
	liked, err := s.IsLiked(1, "reader-a")
	if err != nil {
		t.Fatal(err)
	}
	if liked {
		t.Error("reader-a should no longer like the article")
	}
	if n, _ := s.LikeCount(1); n != 11 {
		t.Errorf("LikeCount after unlike = %d, want 11", n)
	}
	if _, err := s.LikeCount(404); !errors.Is(err, ErrNotFound) {
		t.Errorf("LikeCount(404) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteArticleRemovesLikes(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SaveArticle(testArticle(1)); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLike(1, "reader-a", true); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteArticle(1); err != nil {
		t.Fatalf("DeleteArticle failed: %v", err)
	}
	if _, err := s.GetArticle(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("article should be gone, got %v", err)
	}
	if liked, _ := s.IsLiked(1, "reader-a"); liked {
		t.Error("likes should be deleted with the article")
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{",go,web,", 2},
		{"", 0},
		{",,", 0},
		{",single,", 1},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.in); len(got) != tt.want {
			t.Errorf("ParseTags(%q) = %v, want %d tags", tt.in, got, tt.want)
		}
	}
}
