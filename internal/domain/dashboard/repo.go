package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	DoctorStats(ctx context.Context, doctorID uuid.UUID, now time.Time) (*DoctorStats, error)
	PatientStats(ctx context.Context, patientID uuid.UUID, now time.Time) (*PatientStats, error)
	RecentPatients(ctx context.Context, doctorID uuid.UUID, now time.Time, limit int) ([]*RecentPatient, error)
	DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	PatientIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
