// Package views renders the blog's pages. Each page is an html/template set
// wrapped as a templ.Component so handlers render it like any other component.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/vishyfortheworld/blog"
)

//go:embed templates/*.html
var templateFS embed.FS

var base = template.Must(template.New("base").Funcs(funcs).ParseFS(templateFS,
	"templates/layout.html", "templates/partials.html"))

func page(file string) *template.Template {
	t := template.Must(base.Clone())
	return template.Must(t.ParseFS(templateFS, "templates/"+file))
}

var (
	homeTmpl      = page("home.html")
	postTmpl      = page("post.html")
	loginTmpl     = page("admin_login.html")
	dashboardTmpl = page("admin_dashboard.html")
	formTmpl      = page("admin_form.html")
	notFoundTmpl  = page("not_found.html")
	errorTmpl     = page("server_error.html")
)

// layoutData is what layout.html sees; page templates read their own data
// from .Page.
type layoutData struct {
	Site      blog.SiteConfig
	Meta      blog.PageMeta
	Theme     blog.Theme
	PostStyle template.CSS
	BodyClass string
	CSRFToken string
	JSONLD    template.JS
	Year      int
	Page      any
}

func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

// New returns the view functions for a site.
func New(cfg blog.SiteConfig) blog.ViewFuncs {
	v := &site{cfg: cfg}
	return blog.ViewFuncs{
		Home:           v.home,
		HomeGrid:       v.homeGrid,
		Post:           v.post,
		AdminLogin:     v.adminLogin,
		AdminDashboard: v.adminDashboard,
		AdminForm:      v.adminForm,
		NotFound:       v.notFound,
		ServerError:    v.serverError,
	}
}

type site struct {
	cfg blog.SiteConfig
}

func (s *site) layout(meta blog.PageMeta, theme blog.Theme, csrf string, pageData any) layoutData {
	if meta.Title == "" {
		meta.Title = s.cfg.Name
	}
	if meta.Description == "" {
		meta.Description = s.cfg.Description
	}
	if theme == "" {
		theme = blog.ThemeLight
	}
	return layoutData{
		Site:      s.cfg,
		Meta:      meta,
		Theme:     theme,
		CSRFToken: csrf,
		Year:      time.Now().Year(),
		Page:      pageData,
	}
}

func (s *site) home(p blog.HomePage) templ.Component {
	d := s.layout(p.Meta, p.Prefs.Theme, p.CSRFToken, p)
	d.BodyClass = "home-page"
	d.JSONLD = template.JS(blog.WebsiteJsonLD(s.cfg))
	return component(homeTmpl, "layout", d)
}

func (s *site) homeGrid(l blog.Listing) templ.Component {
	return component(base, "grid", l)
}

func (s *site) post(p blog.PostPage) templ.Component {
	d := s.layout(p.Meta, p.Prefs.Theme, p.CSRFToken, p)
	d.BodyClass = "post-page"
	d.PostStyle = template.CSS(p.Prefs.Theme.PostStyle())
	d.JSONLD = template.JS(blog.ArticleJsonLD(p.Article, s.cfg))
	return component(postTmpl, "layout", d)
}

type loginData struct {
	ShowError bool
	CSRFToken string
}

func (s *site) adminLogin(showError bool, csrf string) templ.Component {
	meta := blog.PageMeta{Title: "Admin | " + s.cfg.Name}
	return component(loginTmpl, "layout", s.layout(meta, "", csrf, loginData{ShowError: showError, CSRFToken: csrf}))
}

type dashboardData struct {
	Articles  []blog.Article
	Message   string
	CSRFToken string
}

func (s *site) adminDashboard(articles []blog.Article, msg, csrf string) templ.Component {
	meta := blog.PageMeta{Title: "Dashboard | " + s.cfg.Name}
	return component(dashboardTmpl, "layout", s.layout(meta, "", csrf, dashboardData{Articles: articles, Message: msg, CSRFToken: csrf}))
}

type formData struct {
	Article   blog.Article
	IsNew     bool
	CSRFToken string
}

func (s *site) adminForm(a blog.Article, csrf string) templ.Component {
	title := "New article"
	if a.ID != 0 {
		title = "Edit: " + a.Title
	}
	meta := blog.PageMeta{Title: title + " | " + s.cfg.Name}
	return component(formTmpl, "layout", s.layout(meta, "", csrf, formData{Article: a, IsNew: a.ID == 0, CSRFToken: csrf}))
}

func (s *site) notFound() templ.Component {
	meta := blog.PageMeta{Title: "Page not found | " + s.cfg.Name}
	return component(notFoundTmpl, "layout", s.layout(meta, "", "", nil))
}

func (s *site) serverError() templ.Component {
	meta := blog.PageMeta{Title: "Something went wrong | " + s.cfg.Name}
	return component(errorTmpl, "layout", s.layout(meta, "", "", nil))
}
