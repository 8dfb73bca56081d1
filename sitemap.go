package blog

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// buildSitemap lists the home page, then every article by its detail URL.
func buildSitemap(base string, articles []Article) sitemapURLSet {
	urls := make([]sitemapURL, 0, len(articles)+1)
	urls = append(urls, sitemapURL{Loc: BuildURL(base), ChangeFreq: "weekly"})
	for _, a := range articles {
		urls = append(urls, sitemapURL{
			Loc:     ArticleURL(base, a.ID),
			LastMod: a.Date,
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, articles []Article) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(buildSitemap(a.Config.URL, articles))
}
