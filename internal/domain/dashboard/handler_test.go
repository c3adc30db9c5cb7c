package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func TestHandler_Stats(t *testing.T) {
	repo := &mockStatsRepo{revenue: 1000, appointments: 1}
	h := NewHandler(newTestService(repo))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?from=2024-06-01&to=2024-06-30", nil)
	req = req.WithContext(auth.WithSession(req.Context(), clinicSession()))
	rec := httptest.NewRecorder()
	if err := h.Stats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalRevenueInCents != 1000 {
		t.Errorf("expected 1000, got %d", stats.TotalRevenueInCents)
	}
	// to covers the whole of June 30
	if want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond); !repo.to.Equal(want) {
		t.Errorf("expected to=%s, got %s", want, repo.to)
	}
}

func TestHandler_Stats_BadDate(t *testing.T) {
	h := NewHandler(newTestService(&mockStatsRepo{}))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?from=June", nil)
	req = req.WithContext(auth.WithSession(req.Context(), clinicSession()))

	err := h.Stats(e.NewContext(req, httptest.NewRecorder()))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestCacheExplicitRange(t *testing.T) {
	hits := 0
	cached := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hits++
			return next(c)
		}
	}
	h := cacheExplicitRange(cached)(func(c echo.Context) error { return nil })
	e := echo.New()

	tests := []struct {
		target string
		cached bool
	}{
		{"/api/v1/dashboard", false},
		{"/api/v1/dashboard?from=2024-06-01", false},
		{"/api/v1/dashboard?to=2024-06-30", false},
		{"/api/v1/dashboard?from=2024-06-01&to=2024-06-30", true},
	}
	for _, tt := range tests {
		hits = 0
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		if err := h(e.NewContext(req, httptest.NewRecorder())); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.target, err)
		}
		if got := hits == 1; got != tt.cached {
			t.Errorf("%s: cached=%v, want %v", tt.target, got, tt.cached)
		}
	}
}
