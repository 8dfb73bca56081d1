package analytics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves analytics reports over HTTP.
type Handler struct {
	store  *Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a new analytics handler that logs failures to logger.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger, now: time.Now}
}

// GetStats returns the summary for ?period=7d|30d|90d|365d, ending tomorrow
// so that today's events are included.
func (h *Handler) GetStats(c echo.Context) error {
	days := ParsePeriod(c.QueryParam("period"))
	to := TruncateDay(h.now().UTC()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -days)
	summary, err := h.store.Summary(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("analytics summary", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, summary)
}

// RegisterRoutes mounts the report endpoints on g behind authMiddleware.
func (h *Handler) RegisterRoutes(g *echo.Group, authMiddleware echo.MiddlewareFunc) {
	g.GET("/stats/", h.GetStats, authMiddleware)
}
