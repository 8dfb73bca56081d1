package blog

import "strconv"

// Article is the content unit rendered by the listing and detail pages.
type Article struct {
	ID       int64
	Title    string
	Excerpt  string
	Content  string
	Category string
	Date     string // YYYY-MM-DD
	ReadTime string // e.g. "8 min read"
	Tags     []string
	Likes    int // seeded base count; live totals come from Store.LikeCount
	Views    int
	Featured bool
	Author   string
	Link     string
}

// ArticleLink returns the detail page path for an article id.
func ArticleLink(id int64) string {
	return "/post/?id=" + strconv.FormatInt(id, 10)
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
}

// PostPage is everything the detail view needs for one request.
type PostPage struct {
	Article   Article
	Likes     int
	Prefs     Preferences
	Related   []Article
	Share     ShareLinks
	Meta      PageMeta
	CSRFToken string
}

// HomePage is everything the listing view needs for one request.
type HomePage struct {
	Listing    Listing
	Categories []string
	Featured   []Article
	Prefs      Preferences
	Meta       PageMeta
	CSRFToken  string
}
