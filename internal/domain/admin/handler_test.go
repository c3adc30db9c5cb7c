package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/validation"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _, _, _ := newTestService()
	e := echo.New()
	e.Validator = validation.New()
	return NewHandler(svc), e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Errorf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func TestHandler_SignUpThenSignIn(t *testing.T) {
	h, e := newTestHandler()

	c, rec := postJSON(e, "/api/v1/auth/sign-up", `{"name":"Ana","email":"ana@clinic.com","password":"s3cret-pass"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash leaked in response")
	}

	c, rec = postJSON(e, "/api/v1/auth/sign-in", `{"email":"ana@clinic.com","password":"s3cret-pass"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected access token")
	}
}

func TestHandler_SignIn_WrongPassword(t *testing.T) {
	h, e := newTestHandler()
	c, _ := postJSON(e, "/api/v1/auth/sign-up", `{"name":"Ana","email":"ana@clinic.com","password":"s3cret-pass"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	c, _ = postJSON(e, "/api/v1/auth/sign-in", `{"email":"ana@clinic.com","password":"nope-nope"}`)
	expectHTTPStatus(t, h.SignIn(c), http.StatusUnauthorized)
}

func TestHandler_SignUp_Invalid(t *testing.T) {
	h, e := newTestHandler()
	c, _ := postJSON(e, "/api/v1/auth/sign-up", `{"name":"Ana","email":"not-an-email","password":"x"}`)
	expectHTTPStatus(t, h.SignUp(c), http.StatusBadRequest)
}

func TestHandler_Me_Anonymous(t *testing.T) {
	h, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	expectHTTPStatus(t, h.Me(c), http.StatusUnauthorized)
}

func TestHandler_CreateClinic(t *testing.T) {
	h, e := newTestHandler()
	c, rec := postJSON(e, "/api/v1/auth/sign-up", `{"name":"Ana","email":"ana@clinic.com","password":"s3cret-pass"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	var signed TokenResponse
	json.Unmarshal(rec.Body.Bytes(), &signed)

	c, rec = postJSON(e, "/api/v1/clinics", `{"name":"Clínica Sorriso"}`)
	c.SetRequest(c.Request().WithContext(auth.WithSession(c.Request().Context(), auth.Session{UserID: signed.User.ID})))
	if err := h.CreateClinic(c); err != nil {
		t.Fatalf("create clinic: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}
