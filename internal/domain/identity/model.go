package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/pkg/timeofday"
)

// Doctor maps to the doctors table. Weekdays use time.Weekday numbering
// (0 = Sunday); times are stored normalized as HH:MM:SS.
type Doctor struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name                    string    `db:"name" json:"name"`
	Specialty               string    `db:"specialty" json:"specialty"`
	AvatarImageURL          *string   `db:"avatar_image_url" json:"avatar_image_url,omitempty"`
	AppointmentPriceInCents int       `db:"appointment_price_in_cents" json:"appointment_price_in_cents"`
	AvailableFromWeekday    int       `db:"available_from_weekday" json:"available_from_weekday"`
	AvailableToWeekday      int       `db:"available_to_weekday" json:"available_to_weekday"`
	AvailableFromTime       string    `db:"available_from_time" json:"available_from_time"`
	AvailableToTime         string    `db:"available_to_time" json:"available_to_time"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// Availability derives the doctor's working window.
func (d *Doctor) Availability() AvailabilityWindow {
	return AvailabilityWindow{
		FromWeekday: time.Weekday(d.AvailableFromWeekday),
		ToWeekday:   time.Weekday(d.AvailableToWeekday),
		From:        timeofday.Normalize(d.AvailableFromTime),
		To:          timeofday.Normalize(d.AvailableToTime),
	}
}

// AvailabilityWindow is the weekday range and daily hours a doctor sees
// patients.
type AvailabilityWindow struct {
	FromWeekday time.Weekday
	ToWeekday   time.Weekday
	From        timeofday.TimeOfDay
	To          timeofday.TimeOfDay
}

// CoversWeekday reports whether day falls inside the weekday range. A range
// whose start is after its end wraps past Saturday, so Friday..Monday
// covers Fri, Sat, Sun and Mon.
func (w AvailabilityWindow) CoversWeekday(day time.Weekday) bool {
	if w.FromWeekday <= w.ToWeekday {
		return day >= w.FromWeekday && day <= w.ToWeekday
	}
	return day >= w.FromWeekday || day <= w.ToWeekday
}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// Patient maps to the patients table. Email is unique within a clinic.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Sex         Sex       `db:"sex" json:"sex"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DoctorInput is the body of PUT /doctors. A nil ID creates a doctor.
type DoctorInput struct {
	ID                      *uuid.UUID `json:"id,omitempty"`
	Name                    string     `json:"name" validate:"required"`
	Specialty               string     `json:"specialty" validate:"required"`
	AvatarImageURL          *string    `json:"avatar_image_url,omitempty" validate:"omitempty,url"`
	AppointmentPriceInCents int        `json:"appointment_price_in_cents" validate:"min=1"`
	AvailableFromWeekday    int        `json:"available_from_weekday" validate:"min=0,max=6"`
	AvailableToWeekday      int        `json:"available_to_weekday" validate:"min=0,max=6"`
	AvailableFromTime       string     `json:"available_from_time" validate:"required,timeofday"`
	AvailableToTime         string     `json:"available_to_time" validate:"required,timeofday"`
}

// PatientInput is the body of PUT /patients. A nil ID creates a patient.
type PatientInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	PhoneNumber string     `json:"phone_number" validate:"required"`
	Sex         Sex        `json:"sex" validate:"required,oneof=male female"`
}
