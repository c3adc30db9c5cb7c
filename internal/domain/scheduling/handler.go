package scheduling

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

func (h *Handler) RegisterRoutes(api *echo.Group, cached echo.MiddlewareFunc) {
	api.GET("/doctors/:id/slots", h.AvailableSlots)

	api.GET("/appointments", h.ListAppointments, cached)
	api.POST("/appointments", h.CreateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
}

func session(c echo.Context) auth.Session {
	return auth.SessionFromContext(c.Request().Context())
}

func parseUUIDParam(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// CreateAppointment checks the session before it binds or validates the body.
func (h *Handler) CreateAppointment(c echo.Context) error {
	sess := session(c)
	if _, err := sess.Scope(); err != nil {
		return apperr.ToHTTP(err)
	}
	var in CreateAppointmentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(&in); err != nil {
			return apperr.ToHTTP(err)
		}
	}
	a, err := h.svc.CreateAppointment(c.Request().Context(), sess, in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := parseUUIDParam(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), session(c), id); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAppointments accepts doctor_id, patient_id and date (YYYY-MM-DD)
// filters.
func (h *Handler) ListAppointments(c echo.Context) error {
	var f ListFilter
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := parseUUIDParam(v, "doctor_id")
		if err != nil {
			return err
		}
		f.DoctorID = &id
	}
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := parseUUIDParam(v, "patient_id")
		if err != nil {
			return err
		}
		f.PatientID = &id
	}
	if v := c.QueryParam("date"); v != "" {
		date, err := h.svc.ParseDate(v)
		if err != nil {
			return apperr.ToHTTP(err)
		}
		from, to := DayBounds(date, h.svc.Location())
		f.From, f.To = &from, &to
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAppointments(c.Request().Context(), session(c), f, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewPage(items, total, pg, c.Request().URL))
}

// AvailableSlots handles GET /doctors/:id/slots?date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(c echo.Context) error {
	doctorID, err := parseUUIDParam(c.Param("id"), "id")
	if err != nil {
		return err
	}
	raw := c.QueryParam("date")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	date, err := h.svc.ParseDate(raw)
	if err != nil {
		return apperr.ToHTTP(err)
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), session(c), doctorID, date)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = s.ToResponse()
	}
	return c.JSON(http.StatusOK, out)
}
