package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment. New appointments always
// start PENDING; doctors move them through the remaining states.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCancelled: true,
	StatusCompleted: true,
}

// Valid reports whether s is one of the known appointment statuses.
func (s Status) Valid() bool { return validStatuses[s] }

var (
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrInvalidInterval  = errors.New("end time must be after start time")
	ErrInvalidStatus    = errors.New("invalid appointment status")
	ErrNotFound         = errors.New("appointment not found")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrPastAppointment  = errors.New("cannot cancel an appointment that has already started")
)

// ConflictError reports that a requested slot overlaps an existing
// non-cancelled appointment for the same doctor.
type ConflictError struct {
	ConflictingID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot conflicts with appointment %s", e.ConflictingID)
}

// Appointment maps to the appointment table. The interval is half-open:
// an appointment occupies [StartTime, EndTime), so back-to-back bookings
// where one ends exactly when the next starts do not collide.
type Appointment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Type      string    `db:"type" json:"type"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether the appointment's half-open interval intersects
// [start, end). Cancelled appointments never block a slot.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	if a.Status == StatusCancelled {
		return false
	}
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// Detail is the listing view of an appointment, joined with the doctor and
// patient names for display.
type Detail struct {
	Appointment
	DoctorFirstName  string `json:"doctor_first_name"`
	DoctorLastName   string `json:"doctor_last_name"`
	PatientFirstName string `json:"patient_first_name"`
	PatientLastName  string `json:"patient_last_name"`
}
