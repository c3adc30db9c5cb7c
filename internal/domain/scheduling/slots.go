package scheduling

import "github.com/clinic/clinic/pkg/timeofday"

// DefaultStepMinutes is the slot interval used when none is configured.
const DefaultStepMinutes = 30

// GenerateSlots lists start times from from (inclusive) to to (exclusive)
// every stepMinutes. All slots are available. from >= to yields an empty
// slice.
func GenerateSlots(from, to timeofday.TimeOfDay, stepMinutes int) []Slot {
	if stepMinutes <= 0 {
		stepMinutes = DefaultStepMinutes
	}
	if !from.Before(to) {
		return []Slot{}
	}

	slots := make([]Slot, 0, (to.Seconds()-from.Seconds())/(stepMinutes*60)+1)
	for cur := from; cur.Before(to); cur = cur.AddMinutes(stepMinutes) {
		slots = append(slots, Slot{StartTime: cur, Available: true, Label: cur.HourMinute()})
	}
	return slots
}
