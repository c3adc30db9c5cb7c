package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/pkg/timeofday"
)

// DateLayout is the calendar date format accepted on the wire.
const DateLayout = "2006-01-02"

// Slot is a candidate start time for one doctor on one date. Slots are
// computed per request and never stored.
type Slot struct {
	StartTime timeofday.TimeOfDay
	Available bool
	Label     string
}

// SlotResponse is the JSON shape of a Slot.
type SlotResponse struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

func (s Slot) ToResponse() SlotResponse {
	return SlotResponse{Value: s.StartTime.HourMinute(), Label: s.Label, Available: s.Available}
}

// Appointment maps to the appointments table. AppointmentDateTime is the
// local wall-clock start with zero seconds, stored as an instant.
type Appointment struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinic_id"`
	PatientID               uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID                uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentDateTime     time.Time `db:"appointment_date_time" json:"appointment_date_time"`
	AppointmentPriceInCents int       `db:"appointment_price_in_cents" json:"appointment_price_in_cents"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// AppointmentView is an appointment joined with its patient and doctor.
type AppointmentView struct {
	Appointment
	PatientName     string `json:"patient_name"`
	PatientEmail    string `json:"patient_email"`
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty"`
}

// CreateAppointmentInput is the body of POST /appointments.
type CreateAppointmentInput struct {
	PatientID               uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID                uuid.UUID `json:"doctor_id" validate:"required"`
	Date                    string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time                    string    `json:"time" validate:"required,timeofday"`
	AppointmentPriceInCents int       `json:"appointment_price_in_cents" validate:"min=1"`
}

// ListFilter narrows ListAppointments. Nil fields do not filter. From is
// inclusive and To exclusive.
type ListFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	From      *time.Time
	To        *time.Time
}
