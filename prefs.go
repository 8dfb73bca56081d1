package blog

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// FontSize is the reader's preferred article body size.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontNormal FontSize = "normal"
	FontLarge  FontSize = "large"
	FontXL     FontSize = "xl"
)

var fontSizes = []FontSize{FontSmall, FontNormal, FontLarge, FontXL}

// ParseFontSize returns the font size named by s, or FontNormal.
func ParseFontSize(s string) FontSize {
	for _, f := range fontSizes {
		if string(f) == s {
			return f
		}
	}
	return FontNormal
}

// Next cycles small -> normal -> large -> xl -> small.
func (f FontSize) Next() FontSize {
	for i, size := range fontSizes {
		if size == f {
			return fontSizes[(i+1)%len(fontSizes)]
		}
	}
	// Unknown sizes behave like normal.
	return FontLarge
}

// Class is the CSS class applied to the article body; normal has none.
func (f FontSize) Class() string {
	if f == FontNormal || f == "" {
		return ""
	}
	return "font-" + string(f)
}

// Label is the human name shown in the toast after cycling.
func (f FontSize) Label() string {
	switch f {
	case FontSmall:
		return "Small"
	case FontLarge:
		return "Large"
	case FontXL:
		return "Extra Large"
	default:
		return "Normal"
	}
}

// Theme is the colour scheme attribute set on <html>.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns the theme named by s, defaulting to light.
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// PostStyle is the extra rule the article page adds on top of the base theme.
func (t Theme) PostStyle() string {
	if t == ThemeDark {
		return "--bg-primary-rgb: 0, 0, 0;"
	}
	return "--bg-primary-rgb: 255, 255, 255;"
}

// Preferences is the reader state for one article view.
type Preferences struct {
	ReaderID   string
	Liked      bool
	Bookmarked bool
	FontSize   FontSize
	Theme      Theme
}

const (
	readerSessionName = "reader_session"
	readerIDKey       = "reader_id"
	fontSizeKey       = "fontSize"
	themeKey          = "theme"

	readerSessionMaxAge = 60 * 60 * 24 * 365
)

func likedKey(id int64) string      { return "liked_" + strconv.FormatInt(id, 10) }
func bookmarkedKey(id int64) string { return "bookmarked_" + strconv.FormatInt(id, 10) }
func milestoneKey(id int64) string  { return "read_" + strconv.FormatInt(id, 10) }

// readerSession wraps the reader's cookie session, which stands in for the
// browser's local storage: string keys, string values, last write wins.
type readerSession struct {
	sess *sessions.Session
	c    echo.Context
}

func getReaderSession(c echo.Context) (*readerSession, error) {
	sess, err := session.Get(readerSessionName, c)
	if err != nil {
		return nil, err
	}
	return &readerSession{sess: sess, c: c}, nil
}

func (r *readerSession) get(key string) string {
	v, _ := r.sess.Values[key].(string)
	return v
}

func (r *readerSession) set(key, value string) {
	r.sess.Values[key] = value
}

func (r *readerSession) flag(key string) bool {
	return r.get(key) == "true"
}

func (r *readerSession) setFlag(key string, on bool) {
	r.set(key, strconv.FormatBool(on))
}

// readerID returns the anonymous reader id, issuing one on first use.
// The second return value is true when a new id was issued.
func (r *readerSession) readerID() (string, bool) {
	if id := r.get(readerIDKey); id != "" {
		return id, false
	}
	id := uuid.NewString()
	r.set(readerIDKey, id)
	return id, true
}

func (r *readerSession) save() error {
	r.sess.Options.MaxAge = readerSessionMaxAge
	return r.sess.Save(r.c.Request(), r.c.Response())
}

func (r *readerSession) preferences(articleID int64) Preferences {
	id, _ := r.readerID()
	return Preferences{
		ReaderID:   id,
		Liked:      articleID != 0 && r.flag(likedKey(articleID)),
		Bookmarked: articleID != 0 && r.flag(bookmarkedKey(articleID)),
		FontSize:   ParseFontSize(r.get(fontSizeKey)),
		Theme:      ParseTheme(r.get(themeKey)),
	}
}

// loadPreferences reads the reader's state for articleID (0 for pages that
// show no single article), saving the session only when a reader id is issued.
func loadPreferences(c echo.Context, articleID int64, logger *slog.Logger) Preferences {
	rs, err := getReaderSession(c)
	if err != nil {
		return Preferences{FontSize: FontNormal, Theme: ThemeLight}
	}
	_, issued := rs.readerID()
	if issued {
		if err := rs.save(); err != nil {
			logger.Warn("save reader session", "error", err)
		}
	}
	return rs.preferences(articleID)
}
