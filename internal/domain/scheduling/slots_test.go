package scheduling

import (
	"reflect"
	"testing"

	"github.com/clinic/clinic/pkg/timeofday"
)

func labels(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label
	}
	return out
}

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		step     int
		want     []string
	}{
		{"half hours", "08:00", "10:00", 30, []string{"08:00", "08:30", "09:00", "09:30"}},
		{"empty window", "09:00", "09:00", 30, []string{}},
		{"inverted window", "10:00", "09:00", 30, []string{}},
		{"end not on step", "08:00", "09:10", 30, []string{"08:00", "08:30", "09:00"}},
		{"hourly", "13:00", "16:00", 60, []string{"13:00", "14:00", "15:00"}},
		{"carry into hour", "08:45", "10:00", 20, []string{"08:45", "09:05", "09:25", "09:45"}},
		{"non-positive step uses default", "08:00", "09:00", 0, []string{"08:00", "08:30"}},
		{"late window", "23:00", "23:59", 30, []string{"23:00", "23:30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(timeofday.Normalize(tt.from), timeofday.Normalize(tt.to), tt.step)
			if !reflect.DeepEqual(labels(got), tt.want) {
				t.Errorf("GenerateSlots(%s, %s, %d) = %v, want %v", tt.from, tt.to, tt.step, labels(got), tt.want)
			}
		})
	}
}

func TestGenerateSlots_AllAvailableAndOrdered(t *testing.T) {
	slots := GenerateSlots(timeofday.New(7, 0, 0), timeofday.New(19, 0, 0), 15)
	if len(slots) != 48 {
		t.Fatalf("expected 48 slots, got %d", len(slots))
	}
	for i, s := range slots {
		if !s.Available {
			t.Errorf("slot %s should be available", s.Label)
		}
		if i > 0 && !slots[i-1].StartTime.Before(s.StartTime) {
			t.Errorf("slots out of order at %d", i)
		}
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	a := GenerateSlots(timeofday.New(8, 0, 0), timeofday.New(12, 0, 0), 30)
	b := GenerateSlots(timeofday.New(8, 0, 0), timeofday.New(12, 0, 0), 30)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical output for identical input")
	}
}
