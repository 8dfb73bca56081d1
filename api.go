package blog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vishyfortheworld/blog/reading"
)

type likeRequest struct {
	BlogID int64 `json:"blogId"`
	Liked  bool  `json:"liked"`
}

type likeResponse struct {
	BlogID int64 `json:"blogId"`
	Liked  bool  `json:"liked"`
	Likes  int   `json:"likes"`
}

type bookmarkRequest struct {
	BlogID     int64 `json:"blogId"`
	Bookmarked bool  `json:"bookmarked"`
}

type bookmarkResponse struct {
	BlogID     int64 `json:"blogId"`
	Bookmarked bool  `json:"bookmarked"`
}

type fontSizeResponse struct {
	FontSize  FontSize `json:"fontSize"`
	ClassName string   `json:"className"`
	Label     string   `json:"label"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type themeResponse struct {
	Theme Theme `json:"theme"`
}

// readingRequest carries either a progress percentage computed by the
// browser or the raw geometry to compute it from.
type readingRequest struct {
	BlogID   int64    `json:"blogId"`
	Progress *float64 `json:"progress"`
	reading.Geometry
}

type readingResponse struct {
	Progress  float64 `json:"progress"`
	Milestone int     `json:"milestone"`
	Recorded  bool    `json:"recorded"`
}

// apiArticle binds the request body into req and resolves its blogId.
func (a *App) apiArticle(c echo.Context, req any, id func() int64) (Article, error) {
	if err := c.Bind(req); err != nil {
		return Article{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	article, err := a.Cache.Get(id())
	if errors.Is(err, ErrNotFound) {
		return Article{}, echo.NewHTTPError(http.StatusNotFound, "blog not found")
	}
	return article, err
}

func (a *App) handleLike(c echo.Context) error {
	var req likeRequest
	article, err := a.apiArticle(c, &req, func() int64 { return req.BlogID })
	if err != nil {
		return err
	}
	rs, err := getReaderSession(c)
	if err != nil {
		return err
	}
	readerID, _ := rs.readerID()
	if err := a.Store.SetLike(article.ID, readerID, req.Liked); err != nil {
		return err
	}
	rs.setFlag(likedKey(article.ID), req.Liked)
	if err := rs.save(); err != nil {
		return err
	}
	if a.analyticsStore != nil {
		if err := a.analyticsStore.RecordLike(c.Request().Context(), article.ID, readerID, req.Liked); err != nil {
			a.Logger.Warn("record like", "article", article.ID, "error", err)
		}
	}
	likes, err := a.Store.LikeCount(article.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{BlogID: article.ID, Liked: req.Liked, Likes: likes})
}

func (a *App) handleBookmark(c echo.Context) error {
	var req bookmarkRequest
	article, err := a.apiArticle(c, &req, func() int64 { return req.BlogID })
	if err != nil {
		return err
	}
	rs, err := getReaderSession(c)
	if err != nil {
		return err
	}
	rs.readerID()
	rs.setFlag(bookmarkedKey(article.ID), req.Bookmarked)
	if err := rs.save(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookmarkResponse{BlogID: article.ID, Bookmarked: req.Bookmarked})
}

func (a *App) handleFontSize(c echo.Context) error {
	rs, err := getReaderSession(c)
	if err != nil {
		return err
	}
	rs.readerID()
	next := ParseFontSize(rs.get(fontSizeKey)).Next()
	rs.set(fontSizeKey, string(next))
	if err := rs.save(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fontSizeResponse{FontSize: next, ClassName: next.Class(), Label: next.Label()})
}

// handleTheme sets the theme named in the body, or toggles when none is given.
func (a *App) handleTheme(c echo.Context) error {
	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rs, err := getReaderSession(c)
	if err != nil {
		return err
	}
	rs.readerID()
	theme := ParseTheme(req.Theme)
	if req.Theme == "" {
		theme = ParseTheme(rs.get(themeKey)).Toggle()
	}
	rs.set(themeKey, string(theme))
	if err := rs.save(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: theme})
}

// handleReading records a reading milestone once per 25% step per reader
// and article; the last recorded step lives in the reader session.
func (a *App) handleReading(c echo.Context) error {
	var req readingRequest
	article, err := a.apiArticle(c, &req, func() int64 { return req.BlogID })
	if err != nil {
		return err
	}
	var progress float64
	switch {
	case req.Progress != nil:
		progress = reading.Clamp(*req.Progress)
	case req.Geometry.Valid():
		progress = reading.Progress(req.Geometry)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "progress or article geometry required")
	}

	rs, err := getReaderSession(c)
	if err != nil {
		return err
	}
	readerID, _ := rs.readerID()
	last, _ := strconv.Atoi(rs.get(milestoneKey(article.ID)))
	milestone, recorded := reading.NewTracker(last).Observe(progress)
	if recorded {
		rs.set(milestoneKey(article.ID), strconv.Itoa(milestone))
		if err := rs.save(); err != nil {
			return err
		}
		if a.analyticsStore != nil {
			if err := a.analyticsStore.RecordReading(c.Request().Context(), article.ID, readerID, milestone); err != nil {
				a.Logger.Warn("record reading", "article", article.ID, "error", err)
			}
		}
	}
	return c.JSON(http.StatusOK, readingResponse{Progress: progress, Milestone: milestone, Recorded: recorded})
}
