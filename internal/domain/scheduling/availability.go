package scheduling

import (
	"time"

	"github.com/google/uuid"
)

const unavailableSuffix = " (unavailable)"

// ApplyOccupancy marks the slots taken by doctorID's appointments on the
// calendar date of date, both read in loc. Slots collide at HH:MM
// granularity. The input slice is left untouched.
func ApplyOccupancy(slots []Slot, appts []*Appointment, doctorID uuid.UUID, date time.Time, loc *time.Location) []Slot {
	if loc == nil {
		loc = time.Local
	}
	day := date.In(loc).Format(DateLayout)

	occupied := make(map[string]struct{})
	for _, a := range appts {
		if a == nil || a.DoctorID != doctorID {
			continue
		}
		at := a.AppointmentDateTime.In(loc)
		if at.Format(DateLayout) != day {
			continue
		}
		occupied[at.Format("15:04")] = struct{}{}
	}

	out := make([]Slot, len(slots))
	for i, s := range slots {
		hm := s.StartTime.HourMinute()
		_, taken := occupied[hm]
		out[i] = Slot{StartTime: s.StartTime, Available: !taken, Label: hm}
		if taken {
			out[i].Label = hm + unavailableSuffix
		}
	}
	return out
}
