package pagination

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextFor(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   Params
	}{
		{"defaults", "/", Params{Limit: DefaultLimit, Offset: 0}},
		{"custom", "/?limit=10&offset=30", Params{Limit: 10, Offset: 30}},
		{"max limit", "/?limit=5000", Params{Limit: MaxLimit, Offset: 0}},
		{"negative offset", "/?offset=-4", Params{Limit: DefaultLimit, Offset: 0}},
		{"garbage", "/?limit=abc&offset=xyz", Params{Limit: DefaultLimit, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromContext(contextFor(tt.target)); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParams_Navigation(t *testing.T) {
	p := Params{Limit: 10, Offset: 5}
	if !p.HasNext(16) || p.HasNext(15) {
		t.Error("HasNext boundary wrong")
	}
	if !p.HasPrevious() || (Params{Limit: 10}).HasPrevious() {
		t.Error("HasPrevious wrong")
	}
	if p.NextOffset() != 15 {
		t.Errorf("expected next offset 15, got %d", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("expected previous offset clamped to 0, got %d", p.PreviousOffset())
	}
	if (Params{Limit: 10, Offset: 25}).PreviousOffset() != 15 {
		t.Error("expected previous offset 15")
	}
}

func TestBuildLinks_KeepsFilters(t *testing.T) {
	u, _ := url.Parse("/api/v1/appointments?doctorId=abc&limit=10&offset=10")
	links := Params{Limit: 10, Offset: 10}.BuildLinks(u, 35)

	if links.Self != "/api/v1/appointments?doctorId=abc&limit=10&offset=10" {
		t.Errorf("unexpected self link %s", links.Self)
	}
	if links.Next != "/api/v1/appointments?doctorId=abc&limit=10&offset=20" {
		t.Errorf("unexpected next link %s", links.Next)
	}
	if links.Previous != "/api/v1/appointments?doctorId=abc&limit=10&offset=0" {
		t.Errorf("unexpected previous link %s", links.Previous)
	}
}

func TestBuildLinks_LastPage(t *testing.T) {
	u, _ := url.Parse("/api/v1/patients")
	links := Params{Limit: 10, Offset: 20}.BuildLinks(u, 25)
	if links.Next != "" {
		t.Errorf("expected no next link, got %s", links.Next)
	}
}

func TestNewPage_EmptyEncodesAsArray(t *testing.T) {
	u, _ := url.Parse("/api/v1/doctors")
	page := NewPage[string](nil, 0, Params{Limit: 20}, u)

	raw, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	json.Unmarshal(raw, &decoded)
	if arr, ok := decoded["data"].([]interface{}); !ok || len(arr) != 0 {
		t.Errorf("expected empty array, got %v", decoded["data"])
	}
	if decoded["has_more"] != false {
		t.Error("expected has_more false")
	}
}
