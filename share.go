package blog

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/vishyfortheworld/blog/shareimage"
)

// ShareFilename is the download name of the share card.
const ShareFilename = "article-share.png"

// ShareLinks are the outbound share targets for one article.
type ShareLinks struct {
	Twitter  string
	LinkedIn string
	CopyText string // title and URL on two lines, for the clipboard
	URL      string
}

// NewShareLinks builds the Twitter intent, LinkedIn share and copy text for an article.
func NewShareLinks(title, articleURL string) ShareLinks {
	tweet := url.Values{
		"text": {"Check out this article: " + title},
		"url":  {articleURL},
	}
	linkedIn := url.Values{"url": {articleURL}}
	return ShareLinks{
		Twitter:  "https://twitter.com/intent/tweet?" + tweet.Encode(),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?" + linkedIn.Encode(),
		CopyText: title + "\n" + articleURL,
		URL:      articleURL,
	}
}

// ShareCard returns the share image text for an article.
func (a *App) ShareCard(article Article) shareimage.Card {
	author := article.Author
	if author == "" {
		author = a.Config.Author
	}
	return shareimage.Card{
		Title:    article.Title,
		Author:   author,
		ReadTime: article.ReadTime,
		Brand:    a.Config.Name,
		Tagline:  a.Config.Tagline,
	}
}

func (a *App) handleShareImage(c echo.Context) error {
	article, err := a.articleFromRequest(c)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := shareimage.Encode(&buf, a.ShareCard(article)); err != nil {
		return err
	}
	disposition := "inline"
	if c.QueryParam("download") != "" {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition+`; filename="`+ShareFilename+`"`)
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
