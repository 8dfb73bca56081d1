package blog

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vishyfortheworld/blog/markdown"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminNew(c echo.Context) error {
	return Render(c, a.Views.AdminForm(Article{
		Date:   time.Now().Format(dateLayout),
		Author: a.Config.Author,
	}, CsrfToken(c)))
}

func (a *App) handleAdminArticle(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	article, err := a.Store.GetArticle(id)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminForm(article, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("failed admin login", "ip", ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func adminRedirect(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return adminRedirect(c, "Title is required.")
	}
	var id int64
	if raw := strings.TrimSpace(c.FormValue("id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return adminRedirect(c, "Invalid article id.")
		}
		id = parsed
	}
	if id == 0 {
		id = time.Now().UnixMilli()
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return adminRedirect(c, "Invalid date format. Use YYYY-MM-DD.")
	}
	content := c.FormValue("content")
	readTime := strings.TrimSpace(c.FormValue("read_time"))
	if readTime == "" {
		readTime = CalculateReadingTime(markdown.PlainText(content))
	}
	category := strings.ToLower(strings.TrimSpace(c.FormValue("category")))
	if category == "" {
		category = "general"
	}
	author := strings.TrimSpace(c.FormValue("author"))
	if author == "" {
		author = a.Config.Author
	}

	// Keep counters when editing an existing article.
	var likes, views int
	if existing, err := a.Store.GetArticle(id); err == nil {
		likes, views = existing.Likes, existing.Views
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := a.Store.SaveArticle(Article{
		ID:       id,
		Title:    title,
		Excerpt:  strings.TrimSpace(c.FormValue("excerpt")),
		Content:  content,
		Category: category,
		Date:     date,
		ReadTime: readTime,
		Tags:     FilterEmpty(strings.Split(c.FormValue("tags"), ",")),
		Likes:    likes,
		Views:    views,
		Featured: c.FormValue("featured") != "",
		Author:   author,
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Logger.Info("article saved", "id", id, "title", title)
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	if err := a.Store.DeleteArticle(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Logger.Info("article deleted", "id", id)
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	articles, err := a.Store.ListArticles()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(articles, msg, CsrfToken(c)))
}
