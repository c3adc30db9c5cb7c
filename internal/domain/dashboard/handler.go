package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, cached echo.MiddlewareFunc) {
	api.GET("/dashboard", h.Stats, cacheExplicitRange(cached))
}

// cacheExplicitRange applies cached only when both from and to are given.
// The default range moves with the clock, so its response is never stored.
func cacheExplicitRange(cached echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withCache := cached(next)
		return func(c echo.Context) error {
			if c.QueryParam("from") == "" || c.QueryParam("to") == "" {
				return next(c)
			}
			return withCache(c)
		}
	}
}

// Stats handles GET /dashboard?from=YYYY-MM-DD&to=YYYY-MM-DD. to covers the
// whole named day.
func (h *Handler) Stats(c echo.Context) error {
	var from, to time.Time
	if v := c.QueryParam("from"); v != "" {
		t, err := h.svc.ParseDate(v)
		if err != nil {
			return apperr.ToHTTP(err)
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := h.svc.ParseDate(v)
		if err != nil {
			return apperr.ToHTTP(err)
		}
		to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	stats, err := h.svc.Stats(c.Request().Context(), auth.SessionFromContext(c.Request().Context()), from, to)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, stats)
}
