package recommendation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a recommendation. New recommendations
// start ACTIVE.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusPending:   true,
	StatusCompleted: true,
}

func (s Status) Valid() bool { return validStatuses[s] }

var (
	ErrNotFound        = errors.New("recommendation not found")
	ErrInvalidStatus   = errors.New("invalid recommendation status")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// Recommendation is a care instruction a doctor issues to a patient, such
// as a lifestyle tip or follow-up task.
type Recommendation struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Type        string    `db:"type" json:"type"`
	Description *string   `db:"description" json:"description,omitempty"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
