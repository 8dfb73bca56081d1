package blog

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PostsPerPage is how many cards each "load more" step reveals.
const PostsPerPage = 6

// CategoryAll is the filter value that matches every category.
const CategoryAll = "all"

// Query describes a listing request: search term, category filter and
// how many "load more" steps deep the reader is (zero-based).
type Query struct {
	Search   string
	Category string
	Page     int
}

// MaxPage is the deepest "load more" step a query may ask for; deeper pages
// would overflow the slice bound.
const MaxPage = math.MaxInt/PostsPerPage - 1

// Normalized returns q with the search lower-cased and trimmed, an empty
// category replaced by CategoryAll and the page clamped to [0, MaxPage].
func (q Query) Normalized() Query {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	return q
}

// NextPage returns the query for the next "load more" step.
func (q Query) NextPage() Query {
	q.Page++
	return q
}

// Listing is a filtered, paginated view over the catalog.
type Listing struct {
	Articles []Article
	Total    int
	HasMore  bool
	Page     int
	Query    Query
}

// SortByDate orders articles newest first. Equal dates keep the higher id first.
func SortByDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].Date != articles[j].Date {
			return articles[i].Date > articles[j].Date
		}
		return articles[i].ID > articles[j].ID
	})
}

// Matches reports whether a matches the search term and category of q.
// q must already be normalized.
func (q Query) Matches(a Article) bool {
	if q.Category != CategoryAll && strings.ToLower(a.Category) != q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), q.Search) ||
		strings.Contains(strings.ToLower(a.Excerpt), q.Search) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), q.Search) {
			return true
		}
	}
	return false
}

// FilterArticles returns the articles matching q, preserving input order.
func FilterArticles(articles []Article, q Query) []Article {
	q = q.Normalized()
	var out []Article
	for _, a := range articles {
		if q.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// Paginate slices filtered down to the first (page+1)*PostsPerPage entries.
func Paginate(filtered []Article, q Query) Listing {
	q = q.Normalized()
	end := (q.Page + 1) * PostsPerPage
	if end > len(filtered) {
		end = len(filtered)
	}
	return Listing{
		Articles: filtered[:end],
		Total:    len(filtered),
		HasMore:  end < len(filtered),
		Page:     q.Page,
		Query:    q,
	}
}

// BuildListing filters and paginates in one step.
func BuildListing(articles []Article, q Query) Listing {
	return Paginate(FilterArticles(articles, q), q)
}

// Categories returns the sorted, distinct, lower-cased categories.
func Categories(articles []Article) []string {
	set := make(map[string]struct{})
	for _, a := range articles {
		if c := strings.ToLower(strings.TrimSpace(a.Category)); c != "" {
			set[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FeaturedArticles returns the articles flagged as featured.
func FeaturedArticles(articles []Article) []Article {
	var out []Article
	for _, a := range articles {
		if a.Featured {
			out = append(out, a)
		}
	}
	return out
}

// RelatedArticles returns up to limit articles related to current: first those
// sharing a tag, then those in the same category. Input order is kept within
// each group, so pass a date-sorted slice.
func RelatedArticles(current Article, articles []Article, limit int) []Article {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var byTag, byCategory []Article
	for _, a := range articles {
		if a.ID == current.ID {
			continue
		}
		shared := false
		for _, t := range a.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				shared = true
				break
			}
		}
		switch {
		case shared:
			byTag = append(byTag, a)
		case strings.EqualFold(a.Category, current.Category):
			byCategory = append(byCategory, a)
		}
	}
	related := append(byTag, byCategory...)
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}
	return related
}

var cardGradients = []string{
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"linear-gradient(135deg, #4facfe 0%, #00f2fe 100%)",
	"linear-gradient(135deg, #43e97b 0%, #38f9d7 100%)",
	"linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
	"linear-gradient(135deg, #a8edea 0%, #fed6e3 100%)",
	"linear-gradient(135deg, #ff9a9e 0%, #fecfef 100%)",
	"linear-gradient(135deg, #a18cd1 0%, #fbc2eb 100%)",
}

// CardGradient picks the card background for an article id.
func CardGradient(id int64) string {
	i := id % int64(len(cardGradients))
	if i < 0 {
		i = -i
	}
	return cardGradients[i]
}

const dateLayout = "2006-01-02"

// FormatDate renders an ISO date as "Jan 15, 2024".
func FormatDate(iso string) string {
	t, err := time.Parse(dateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateLong renders an ISO date as "January 15, 2024".
func FormatDateLong(iso string) string {
	t, err := time.Parse(dateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("January 2, 2006")
}

// WordsPerMinute is the reading speed used by CalculateReadingTime.
const WordsPerMinute = 200

// CalculateReadingTime estimates a read-time label from body text.
func CalculateReadingTime(text string) string {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return strconv.Itoa(minutes) + " min read"
}
