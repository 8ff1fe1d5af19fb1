package dashboard

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) DoctorStats(ctx context.Context, doctorID uuid.UUID, now time.Time) (*DoctorStats, error) {
	var s DoctorStats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE start_time::date = $2::date AND status <> 'CANCELLED'),
			COUNT(*) FILTER (WHERE start_time >= date_trunc('week', $2::timestamptz)
				AND start_time < date_trunc('week', $2::timestamptz) + interval '7 days'
				AND status <> 'CANCELLED'),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(DISTINCT patient_id)
		FROM appointment
		WHERE doctor_id = $1`, doctorID, now).
		Scan(&s.AppointmentsToday, &s.AppointmentsThisWeek, &s.PendingAppointments, &s.TotalPatients)
	return &s, err
}

func (r *repoPG) PatientStats(ctx context.Context, patientID uuid.UUID, now time.Time) (*PatientStats, error) {
	var s PatientStats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE start_time >= $2 AND status <> 'CANCELLED'),
			COUNT(*)
		FROM appointment
		WHERE patient_id = $1`, patientID, now).
		Scan(&s.UpcomingAppointments, &s.TotalAppointments)
	if err != nil {
		return nil, err
	}
	err = r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM recommendation
		WHERE patient_id = $1 AND status = 'ACTIVE'`, patientID).
		Scan(&s.ActiveRecommendations)
	return &s, err
}

// RecentPatients returns one row per patient, keyed by the patient's most
// recent visit to this doctor, newest visit first.
func (r *repoPG) RecentPatients(ctx context.Context, doctorID uuid.UUID, now time.Time, limit int) ([]*RecentPatient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT patient_id, first_name, last_name, last_visit FROM (
			SELECT DISTINCT ON (a.patient_id)
				a.patient_id, u.first_name, u.last_name, a.start_time AS last_visit
			FROM appointment a
			JOIN patient p ON p.id = a.patient_id
			JOIN app_user u ON u.id = p.user_id
			WHERE a.doctor_id = $1 AND a.start_time <= $2 AND a.status <> 'CANCELLED'
			ORDER BY a.patient_id, a.start_time DESC
		) visits
		ORDER BY last_visit DESC
		LIMIT $3`, doctorID, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RecentPatient
	for rows.Next() {
		var rp RecentPatient
		if err := rows.Scan(&rp.PatientID, &rp.FirstName, &rp.LastName, &rp.LastVisit); err != nil {
			return nil, err
		}
		items = append(items, &rp)
	}
	return items, rows.Err()
}

func (r *repoPG) DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM doctor WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrDoctorNotFound
	}
	return id, err
}

func (r *repoPG) PatientIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM patient WHERE user_id = $1`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrPatientNotFound
	}
	return id, err
}
