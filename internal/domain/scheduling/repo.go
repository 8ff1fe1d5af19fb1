package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create inserts the appointment. It returns a *ConflictError when the
	// slot overlaps an existing non-cancelled appointment for the doctor.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error)
	// FindOverlap returns an existing non-cancelled appointment for the
	// doctor whose half-open interval intersects [start, end), or nil when
	// the slot is free.
	FindOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Detail, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error)
	ListUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time, limit, offset int) ([]*Detail, int, error)
	ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time, limit, offset int) ([]*Detail, int, error)
	ListRecentByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*Detail, error)
}

// Directory resolves doctor and patient records without pulling the whole
// identity domain into the scheduler.
type Directory interface {
	DoctorExists(ctx context.Context, doctorID uuid.UUID) (bool, error)
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)
	DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	PatientIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
