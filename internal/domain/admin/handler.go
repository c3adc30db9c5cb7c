package admin

import (
	"net/http"

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

// RegisterRoutes mounts the account endpoints. sign-up and sign-in are
// listed in auth's public paths.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/sign-up", h.SignUp)
	api.POST("/auth/sign-in", h.SignIn)
	api.GET("/auth/me", h.Me)
	api.POST("/clinics", h.CreateClinic)
}

func bind(c echo.Context, dst interface{}) error {
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

func (h *Handler) SignUp(c echo.Context) error {
	var in SignUpInput
	if err := bind(c, &in); err != nil {
		return err
	}
	resp, err := h.svc.SignUp(c.Request().Context(), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) SignIn(c echo.Context) error {
	var in SignInInput
	if err := bind(c, &in); err != nil {
		return err
	}
	resp, err := h.svc.SignIn(c.Request().Context(), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c echo.Context) error {
	me, err := h.svc.Me(c.Request().Context(), auth.SessionFromContext(c.Request().Context()))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, me)
}

func (h *Handler) CreateClinic(c echo.Context) error {
	var in CreateClinicInput
	if err := bind(c, &in); err != nil {
		return err
	}
	clinic, err := h.svc.CreateClinic(c.Request().Context(), auth.SessionFromContext(c.Request().Context()), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, clinic)
}
