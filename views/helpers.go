package views

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"strconv"

	"github.com/vishyfortheworld/blog"
	"github.com/vishyfortheworld/blog/markdown"
)

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"formatDate":     blog.FormatDate,
	"formatDateLong": blog.FormatDateLong,
	"joinTags":       blog.JoinTags,
	"gradient":       cardStyle,
	"markdown":       renderMarkdown,
	"categoryURL":    CategoryURL,
	"categoryHref":   categoryHref,
	"moreURL":        MoreURL,
	"searchURL":      searchURL,
	"tagClass":       TagClass,
	"fontClass":      fontClass,
}

// cardStyle is the inline background of an article card.
func cardStyle(id int64) template.CSS {
	return template.CSS("background: " + blog.CardGradient(id))
}

// renderMarkdown converts an article body to HTML. Raw HTML in the source is
// dropped by the renderer, so the result is trusted.
func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Markdown(content).Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func listingValues(q blog.Query) url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Category != "" && q.Category != blog.CategoryAll {
		v.Set("category", q.Category)
	}
	return v
}

// CategoryURL links to the listing filtered by category, keeping the search term.
func CategoryURL(category string, q blog.Query) string {
	v := listingValues(q)
	v.Del("category")
	if category != "" && category != blog.CategoryAll {
		v.Set("category", category)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func categoryHref(category string) string {
	return CategoryURL(category, blog.Query{})
}

// MoreURL is the "load more" link for the next page of q. The partial form
// returns only the grid, for HTMX swaps.
func MoreURL(q blog.Query, partial bool) string {
	v := listingValues(q)
	v.Set("page", strconv.Itoa(q.NextPage().Page))
	if partial {
		v.Set("partial", "grid")
	}
	return "/?" + v.Encode()
}

func searchURL(tag string) string {
	return "/?" + url.Values{"q": {tag}}.Encode()
}

// TagClass returns CSS classes for a category pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag active"
	}
	return "tag"
}

func fontClass(p blog.Preferences) string {
	if c := p.FontSize.Class(); c != "" {
		return "content-body " + c
	}
	return "content-body"
}
