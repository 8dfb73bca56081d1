package blog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

func buildFeed(cfg SiteConfig, articles []Article) rssXML {
	items := make([]rssItem, 0, len(articles))
	for _, a := range articles {
		pubDate := ""
		if t, err := time.Parse(dateLayout, a.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		articleURL := ArticleURL(cfg.URL, a.ID)
		items = append(items, rssItem{
			Title:       a.Title,
			Link:        articleURL,
			Description: a.Excerpt,
			Author:      a.Author,
			Categories:  append([]string{a.Category}, a.Tags...),
			PubDate:     pubDate,
			GUID:        articleURL,
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        BuildURL(cfg.URL),
			Description: cfg.Description,
			Items:       items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, articles []Article) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(buildFeed(a.Config, articles))
}
