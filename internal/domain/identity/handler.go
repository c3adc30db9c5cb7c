package identity

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/apperr"
	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the registries on api. cached wraps the listing
// endpoints with the response cache.
func (h *Handler) RegisterRoutes(api *echo.Group, cached echo.MiddlewareFunc) {
	api.GET("/doctors", h.ListDoctors, cached)
	api.GET("/doctors/:id", h.GetDoctor)
	api.PUT("/doctors", h.UpsertDoctor)
	api.DELETE("/doctors/:id", h.DeleteDoctor)

	api.GET("/patients", h.ListPatients, cached)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients", h.UpsertPatient)
	api.DELETE("/patients/:id", h.DeletePatient)
}

func session(c echo.Context) auth.Session {
	return auth.SessionFromContext(c.Request().Context())
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// bindAndValidate checks the session first, then binds and runs the echo
// validator when one is registered.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if _, err := session(c).Scope(); err != nil {
		return apperr.ToHTTP(err)
	}
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(dst); err != nil {
			return apperr.ToHTTP(err)
		}
	}
	return nil
}

// -- Doctor Handlers --

func (h *Handler) UpsertDoctor(c echo.Context) error {
	var in DoctorInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	d, err := h.svc.UpsertDoctor(c.Request().Context(), session(c), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), session(c), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), session(c), pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg, c.Request().URL))
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDoctor(c.Request().Context(), session(c), id); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Patient Handlers --

func (h *Handler) UpsertPatient(c echo.Context) error {
	var in PatientInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	p, err := h.svc.UpsertPatient(c.Request().Context(), session(c), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), session(c), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), session(c), pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg, c.Request().URL))
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), session(c), id); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
