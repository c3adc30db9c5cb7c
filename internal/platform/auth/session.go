package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/apperr"
)

// Session is the caller identity a service operation runs under. ClinicID
// is nil until the user has created a clinic.
type Session struct {
	UserID   uuid.UUID
	ClinicID *uuid.UUID
}

func (s Session) HasUser() bool { return s.UserID != uuid.Nil }

func (s Session) HasClinic() bool { return s.ClinicID != nil && *s.ClinicID != uuid.Nil }

// Scope returns the clinic every query of this session is restricted to.
// A session without a user fails with ErrUnauthorized before the clinic is
// checked.
func (s Session) Scope() (uuid.UUID, error) {
	if !s.HasUser() {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	if !s.HasClinic() {
		return uuid.Nil, apperr.ErrClinicNotFound
	}
	return *s.ClinicID, nil
}

// MembershipLookup resolves the clinic a user belongs to. It returns nil,
// nil when the user has no clinic.
type MembershipLookup interface {
	ClinicIDForUser(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

// SessionMiddleware builds the Session for the authenticated user. It must
// run after JWTMiddleware or DevAuthMiddleware. Requests without a user get
// an empty session and services reject them.
func SessionMiddleware(lookup MembershipLookup, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sess := Session{UserID: UserIDFromContext(ctx)}
			if sess.HasUser() {
				clinicID, err := lookup.ClinicIDForUser(ctx, sess.UserID)
				if err != nil {
					logger.Error().Err(err).Str("user_id", sess.UserID.String()).Msg("session clinic lookup failed")
					return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
				}
				sess.ClinicID = clinicID
			}
			c.SetRequest(c.Request().WithContext(WithSession(ctx, sess)))
			return next(c)
		}
	}
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(SessionKey).(Session)
	return s
}
