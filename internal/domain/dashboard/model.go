package dashboard

import "time"

// Stats summarises a clinic. Revenue and appointment count cover
// appointments created in [From, To]; patient and doctor counts are
// clinic totals.
type Stats struct {
	From                time.Time `json:"from"`
	To                  time.Time `json:"to"`
	TotalRevenueInCents int64     `json:"total_revenue_in_cents"`
	TotalAppointments   int       `json:"total_appointments"`
	TotalPatients       int       `json:"total_patients"`
	TotalDoctors        int       `json:"total_doctors"`
}
