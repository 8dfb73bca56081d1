package blog

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vishyfortheworld/blog/analytics"
)

// RelatedLimit is how many related articles the detail page shows.
const RelatedLimit = 3

func queryFromRequest(c echo.Context) Query {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return Query{
		Search:   c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Page:     page,
	}.Normalized()
}

func (a *App) handleHome(c echo.Context) error {
	listing, err := a.Cache.Listing(queryFromRequest(c))
	if err != nil {
		return err
	}
	if isHTMX(c) && c.QueryParam("partial") == "grid" {
		return Render(c, a.Views.HomeGrid(listing))
	}
	all, err := a.Cache.All()
	if err != nil {
		return err
	}
	categories, err := a.Cache.Categories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(HomePage{
		Listing:    listing,
		Categories: categories,
		Featured:   FeaturedArticles(all),
		Prefs:      loadPreferences(c, 0, a.Logger),
		Meta: PageMeta{
			Title:       a.Config.Name,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL),
			OGType:      "website",
		},
		CSRFToken: CsrfToken(c),
	}))
}

// articleFromRequest resolves ?id= to an article, falling back to the
// default article when the id is missing, malformed or unknown.
func (a *App) articleFromRequest(c echo.Context) (Article, error) {
	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil || id <= 0 {
		id = DefaultArticleID
	}
	article, err := a.Cache.Get(id)
	if errors.Is(err, ErrNotFound) && id != DefaultArticleID {
		return a.Cache.Get(DefaultArticleID)
	}
	return article, err
}

func (a *App) handlePost(c echo.Context) error {
	article, err := a.articleFromRequest(c)
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	likes, err := a.Store.LikeCount(article.ID)
	if err != nil {
		return err
	}
	all, err := a.Cache.All()
	if err != nil {
		return err
	}
	prefs := loadPreferences(c, article.ID, a.Logger)
	articleURL := ArticleURL(a.Config.URL, article.ID)
	a.recordView(c, article.ID, prefs.ReaderID)

	return Render(c, a.Views.Post(PostPage{
		Article: article,
		Likes:   likes,
		Prefs:   prefs,
		Related: RelatedArticles(article, all, RelatedLimit),
		Share:   NewShareLinks(article.Title, articleURL),
		Meta: PageMeta{
			Title:       article.Title + " | " + a.Config.Name,
			Description: article.Excerpt,
			URL:         articleURL,
			OGType:      "article",
			Image:       ShareImageURL(a.Config.URL, article.ID),
		},
		CSRFToken: CsrfToken(c),
	}))
}

func (a *App) recordView(c echo.Context, articleID int64, readerID string) {
	if a.analyticsStore == nil || readerID == "" || analytics.IsBot(c.Request().UserAgent()) {
		return
	}
	if err := a.analyticsStore.RecordView(c.Request().Context(), articleID, readerID); err != nil {
		a.Logger.Warn("record view", "article", articleID, "error", err)
	}
}

// handleLegacyRedirect sends the old static page names to their routes,
// keeping the query string so ?id= links keep working.
func handleLegacyRedirect(target string) echo.HandlerFunc {
	return func(c echo.Context) error {
		dest := target
		if raw := c.Request().URL.RawQuery; raw != "" {
			dest += "?" + raw
		}
		return c.Redirect(http.StatusMovedPermanently, dest)
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Cache.All()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, articles)
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Cache.All()
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /api/\n\n")
	b.WriteString("Sitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

// ShareImageURL is the absolute URL of an article's share card.
func ShareImageURL(base string, id int64) string {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/post/share.png")
	if err != nil {
		return base
	}
	u.RawQuery = url.Values{"id": {strconv.FormatInt(id, 10)}}.Encode()
	return u.String()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		message = http.StatusText(code)
	}

	if isAPIRequest(c) {
		_ = c.JSON(code, errorBody{Error: message})
		return
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, a.Views.NotFound())
	case code >= http.StatusInternalServerError:
		_ = RenderStatus(c, code, a.Views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
