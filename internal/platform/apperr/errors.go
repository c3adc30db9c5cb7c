// Package apperr holds the error kinds every domain service returns and
// their mapping onto HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrClinicNotFound         = errors.New("clinic not found")
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
)

// Validation wraps ErrValidation with a field-level message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a user-facing message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// ToHTTP converts a service error into an echo.HTTPError. Unknown errors
// become a generic 500 so store details never reach the client.
func ToHTTP(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrClinicNotFound):
		return echo.NewHTTPError(http.StatusForbidden, "clinic not found")
	case errors.Is(err, ErrNotFoundOrUnauthorized):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
