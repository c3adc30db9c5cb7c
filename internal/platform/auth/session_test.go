package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/apperr"
)

type mockLookup struct {
	clinic *uuid.UUID
	err    error
	calls  int
}

func (m *mockLookup) ClinicIDForUser(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	m.calls++
	return m.clinic, m.err
}

func runSession(t *testing.T, lookup MembershipLookup, userID uuid.UUID) (Session, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != uuid.Nil {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got Session
	h := SessionMiddleware(lookup, zerolog.Nop())(func(c echo.Context) error {
		got = SessionFromContext(c.Request().Context())
		return nil
	})
	return got, h(c)
}

func TestSessionMiddleware_WithClinic(t *testing.T) {
	clinicID := uuid.New()
	userID := uuid.New()
	sess, err := runSession(t, &mockLookup{clinic: &clinicID}, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.UserID != userID || !sess.HasClinic() || *sess.ClinicID != clinicID {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestSessionMiddleware_NoClinic(t *testing.T) {
	sess, err := runSession(t, &mockLookup{}, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sess.HasUser() || sess.HasClinic() {
		t.Errorf("expected user without clinic, got %+v", sess)
	}
}

func TestSessionMiddleware_Anonymous(t *testing.T) {
	lookup := &mockLookup{}
	sess, err := runSession(t, lookup, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.HasUser() {
		t.Errorf("expected empty session, got %+v", sess)
	}
	if lookup.calls != 0 {
		t.Error("lookup must not run without a user")
	}
}

func TestSessionMiddleware_LookupError(t *testing.T) {
	_, err := runSession(t, &mockLookup{err: errors.New("db down")}, uuid.New())
	expectStatus(t, err, http.StatusInternalServerError)
}

func TestSession_Scope(t *testing.T) {
	clinicID := uuid.New()
	if _, err := (Session{}).Scope(); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := (Session{UserID: uuid.New()}).Scope(); !errors.Is(err, apperr.ErrClinicNotFound) {
		t.Errorf("expected ErrClinicNotFound, got %v", err)
	}
	nilClinic := uuid.Nil
	if _, err := (Session{UserID: uuid.New(), ClinicID: &nilClinic}).Scope(); !errors.Is(err, apperr.ErrClinicNotFound) {
		t.Errorf("expected ErrClinicNotFound for nil uuid, got %v", err)
	}
	got, err := (Session{UserID: uuid.New(), ClinicID: &clinicID}).Scope()
	if err != nil || got != clinicID {
		t.Errorf("expected %s, got %s (%v)", clinicID, got, err)
	}
}
