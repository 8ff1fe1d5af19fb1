package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
)

// TxRunner executes fn inside a database transaction. The context passed to
// fn carries the transaction so repository calls inside it share one unit of
// work.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

const recentLimit = 5

type Service struct {
	appointments AppointmentRepository
	directory    Directory
	tx           TxRunner
	now          func() time.Time
}

func NewService(appointments AppointmentRepository, directory Directory, tx TxRunner) *Service {
	return &Service{
		appointments: appointments,
		directory:    directory,
		tx:           tx,
		now:          time.Now,
	}
}

type ProposeInput struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Type      string    `json:"type"`
	Notes     *string   `json:"notes"`
}

// Propose books a new appointment. Patients always book for themselves; a
// doctor supplies the patient explicitly. Validation runs in a fixed order:
// doctor, patient, interval, then the slot check. The slot check and insert
// run in one transaction, with the table's exclusion constraint as the final
// arbiter under concurrency, so at most one of two racing requests for an
// overlapping slot can succeed.
func (s *Service) Propose(ctx context.Context, p auth.Principal, in ProposeInput) (*Appointment, error) {
	ok, err := s.directory.DoctorExists(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDoctorNotFound
	}

	patientID := in.PatientID
	if p.IsPatient() {
		patientID, err = s.directory.PatientIDForUser(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
	} else {
		ok, err := s.directory.PatientExists(ctx, patientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPatientNotFound
		}
	}

	if !in.EndTime.After(in.StartTime) {
		return nil, ErrInvalidInterval
	}

	a := &Appointment{
		DoctorID:  in.DoctorID,
		PatientID: patientID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      in.Type,
		Notes:     in.Notes,
		Status:    StatusPending,
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		conflict, err := s.appointments.FindOverlap(ctx, in.DoctorID, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{ConflictingID: conflict.ID}
		}
		return s.appointments.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SetStatus moves an appointment to the given status on behalf of the
// calling doctor. Any transition between valid statuses is allowed; setting
// the current status again succeeds without touching the record.
func (s *Service) SetStatus(ctx context.Context, p auth.Principal, id uuid.UUID, status Status) (*Appointment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := s.directory.DoctorIDForUser(ctx, p.UserID); err != nil {
		return nil, err
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == status {
		return a, nil
	}
	return s.appointments.UpdateStatus(ctx, id, status)
}

// CancelOwn cancels a patient's own appointment. Appointments belonging to
// other patients are reported as not found rather than forbidden.
func (s *Service) CancelOwn(ctx context.Context, p auth.Principal, id uuid.UUID) (*Appointment, error) {
	patientID, err := s.directory.PatientIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, ErrNotFound
	}
	if a.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if a.StartTime.Before(s.now()) {
		return nil, ErrPastAppointment
	}
	return s.appointments.UpdateStatus(ctx, id, StatusCancelled)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// ListForPrincipal returns the caller's appointments: a doctor sees their
// agenda in chronological order, a patient their own bookings newest first.
func (s *Service) ListForPrincipal(ctx context.Context, p auth.Principal, limit, offset int) ([]*Detail, int, error) {
	if p.IsDoctor() {
		doctorID, err := s.directory.DoctorIDForUser(ctx, p.UserID)
		if err != nil {
			return nil, 0, err
		}
		return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
	}
	patientID, err := s.directory.PatientIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, 0, err
	}
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

// Upcoming returns the caller's future non-cancelled appointments in
// chronological order.
func (s *Service) Upcoming(ctx context.Context, p auth.Principal, limit, offset int) ([]*Detail, int, error) {
	if p.IsDoctor() {
		doctorID, err := s.directory.DoctorIDForUser(ctx, p.UserID)
		if err != nil {
			return nil, 0, err
		}
		return s.appointments.ListUpcomingByDoctor(ctx, doctorID, s.now(), limit, offset)
	}
	patientID, err := s.directory.PatientIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, 0, err
	}
	return s.appointments.ListUpcomingByPatient(ctx, patientID, s.now(), limit, offset)
}

// Recent returns the doctor's latest appointments, newest first.
func (s *Service) Recent(ctx context.Context, p auth.Principal) ([]*Detail, error) {
	doctorID, err := s.directory.DoctorIDForUser(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return s.appointments.ListRecentByDoctor(ctx, doctorID, recentLimit)
}
