package dashboard

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// DoctorStats summarizes a doctor's workload for the dashboard header.
type DoctorStats struct {
	AppointmentsToday    int `json:"appointments_today"`
	AppointmentsThisWeek int `json:"appointments_this_week"`
	PendingAppointments  int `json:"pending_appointments"`
	TotalPatients        int `json:"total_patients"`
}

// PatientStats summarizes a patient's portal view.
type PatientStats struct {
	UpcomingAppointments  int `json:"upcoming_appointments"`
	ActiveRecommendations int `json:"active_recommendations"`
	TotalAppointments     int `json:"total_appointments"`
}

// RecentPatient is one row of the doctor's "recently seen" list: each
// patient appears once, keyed by their most recent visit.
type RecentPatient struct {
	PatientID uuid.UUID `json:"patient_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastVisit time.Time `json:"last_visit"`
}
