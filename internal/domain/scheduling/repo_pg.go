package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinicdesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, doctor_id, patient_id, start_time, end_time, type, notes, status, created_at, updated_at`

func (r *appointmentRepoPG) scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.StartTime, &a.EndTime,
		&a.Type, &a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

// The appointment table carries an exclusion constraint over
// (doctor_id, tstzrange(start_time, end_time)) restricted to non-cancelled
// rows, so two racing inserts cannot both commit. The constraint violation
// surfaces as SQLSTATE 23P01 and is translated to a ConflictError here.
func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, start_time, end_time, type, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.DoctorID, a.PatientID, a.StartTime, a.EndTime, a.Type, a.Notes, a.Status)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01":
			// The surrounding transaction is aborted once the constraint
			// fires, so the conflicting row must be read on a fresh
			// connection from the pool.
			conflict, findErr := r.findOverlapOn(ctx, r.pool, a.DoctorID, a.StartTime, a.EndTime)
			if findErr == nil && conflict != nil {
				return &ConflictError{ConflictingID: conflict.ID}
			}
			return &ConflictError{}
		case "23503":
			if pgErr.ConstraintName == "appointment_patient_id_fkey" {
				return ErrPatientNotFound
			}
			return ErrDoctorNotFound
		}
	}
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

// UpdateStatus can itself violate the exclusion constraint when a cancelled
// appointment is reactivated into a slot that was rebooked in the meantime.
func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	a, err := r.scanAppt(r.conn(ctx).QueryRow(ctx, `
		UPDATE appointment SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+apptCols, id, status))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return nil, &ConflictError{}
	}
	return a, err
}

func (r *appointmentRepoPG) FindOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (*Appointment, error) {
	return r.findOverlapOn(ctx, r.conn(ctx), doctorID, start, end)
}

func (r *appointmentRepoPG) findOverlapOn(ctx context.Context, q queryable, doctorID uuid.UUID, start, end time.Time) (*Appointment, error) {
	a, err := r.scanAppt(q.QueryRow(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1
		  AND status <> 'CANCELLED'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time ASC
		LIMIT 1`, doctorID, start, end))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return a, err
}

const detailCols = `a.id, a.doctor_id, a.patient_id, a.start_time, a.end_time, a.type, a.notes,
	a.status, a.created_at, a.updated_at,
	du.first_name, du.last_name, pu.first_name, pu.last_name`

const detailJoins = `
	FROM appointment a
	JOIN doctor d ON d.id = a.doctor_id
	JOIN app_user du ON du.id = d.user_id
	JOIN patient p ON p.id = a.patient_id
	JOIN app_user pu ON pu.id = p.user_id`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(&d.ID, &d.DoctorID, &d.PatientID, &d.StartTime, &d.EndTime,
		&d.Type, &d.Notes, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.DoctorFirstName, &d.DoctorLastName, &d.PatientFirstName, &d.PatientLastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *appointmentRepoPG) queryDetails(ctx context.Context, query string, args ...interface{}) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.queryDetails(ctx, `SELECT `+detailCols+detailJoins+`
		WHERE a.doctor_id = $1
		ORDER BY a.start_time ASC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	return items, total, err
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.queryDetails(ctx, `SELECT `+detailCols+detailJoins+`
		WHERE a.patient_id = $1
		ORDER BY a.start_time DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	return items, total, err
}

func (r *appointmentRepoPG) ListUpcomingByDoctor(ctx context.Context, doctorID uuid.UUID, from time.Time, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE doctor_id = $1 AND start_time >= $2 AND status <> 'CANCELLED'`,
		doctorID, from).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.queryDetails(ctx, `SELECT `+detailCols+detailJoins+`
		WHERE a.doctor_id = $1 AND a.start_time >= $2 AND a.status <> 'CANCELLED'
		ORDER BY a.start_time ASC
		LIMIT $3 OFFSET $4`, doctorID, from, limit, offset)
	return items, total, err
}

func (r *appointmentRepoPG) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, from time.Time, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE patient_id = $1 AND start_time >= $2 AND status <> 'CANCELLED'`,
		patientID, from).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.queryDetails(ctx, `SELECT `+detailCols+detailJoins+`
		WHERE a.patient_id = $1 AND a.start_time >= $2 AND a.status <> 'CANCELLED'
		ORDER BY a.start_time ASC
		LIMIT $3 OFFSET $4`, patientID, from, limit, offset)
	return items, total, err
}

func (r *appointmentRepoPG) ListRecentByDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*Detail, error) {
	return r.queryDetails(ctx, `SELECT `+detailCols+detailJoins+`
		WHERE a.doctor_id = $1
		ORDER BY a.start_time DESC
		LIMIT $2`, doctorID, limit)
}

// =========== Directory ===========

type directoryPG struct{ pool *pgxpool.Pool }

func NewDirectoryPG(pool *pgxpool.Pool) Directory { return &directoryPG{pool: pool} }

func (r *directoryPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *directoryPG) DoctorExists(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctor WHERE id = $1)`, doctorID).Scan(&exists)
	return exists, err
}

func (r *directoryPG) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient WHERE id = $1)`, patientID).Scan(&exists)
	return exists, err
}

func (r *directoryPG) DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM doctor WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrDoctorNotFound
	}
	return id, err
}

func (r *directoryPG) PatientIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM patient WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrPatientNotFound
	}
	return id, err
}
