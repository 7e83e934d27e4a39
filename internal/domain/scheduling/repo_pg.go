package scheduling

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medbook/medbook/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Directory --

type directoryPG struct {
	q querier
}

func NewDirectory(q querier) Directory {
	return &directoryPG{q: q}
}

func (r *directoryPG) GetPatient(ctx context.Context, id int64) (*PatientContact, error) {
	var p PatientContact
	err := r.q.QueryRow(ctx, `SELECT id, name, email, phone FROM patients WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone)
	if db.IsNoRows(err) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}
	return &p, nil
}

func (r *directoryPG) FindDoctorBySpecialization(ctx context.Context, spec string) (*DoctorRef, error) {
	var d DoctorRef
	err := r.q.QueryRow(ctx, `
		SELECT id, name, specialization FROM doctors
		WHERE specialization ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT 1`, spec).Scan(&d.ID, &d.Name, &d.Specialization)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor for %q: %w", spec, err)
	}
	return &d, nil
}

// -- Appointment Repository --

type appointmentRepoPG struct {
	q querier
}

func NewAppointmentRepo(q querier) AppointmentRepository {
	return &appointmentRepoPG{q: q}
}

const detailSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.service_id,
		to_char(a.appointment_date, 'YYYY-MM-DD'), to_char(a.appointment_time, 'HH24:MI'),
		a.notes, a.status, a.created_at,
		s.name, d.name, p.name, p.email, p.phone
	FROM appointments a
	JOIN services s ON s.id = a.service_id
	JOIN patients p ON p.id = a.patient_id
	LEFT JOIN doctors d ON d.id = a.doctor_id`

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var d AppointmentDetail
	err := row.Scan(
		&d.ID, &d.PatientID, &d.DoctorID, &d.ServiceID,
		&d.Date, &d.Time,
		&d.Notes, &d.Status, &d.CreatedAt,
		&d.ServiceName, &d.DoctorName, &d.PatientName, &d.PatientEmail, &d.PatientPhone,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *appointmentRepoPG) list(ctx context.Context, where string, args ...interface{}) ([]*AppointmentDetail, error) {
	rows, err := r.q.Query(ctx, detailSelect+" "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*AppointmentDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *appointmentRepoPG) get(ctx context.Context, where string, args ...interface{}) (*AppointmentDetail, error) {
	d, err := scanDetail(r.q.QueryRow(ctx, detailSelect+" "+where, args...))
	if db.IsNoRows(err) {
		return nil, ErrAppointmentNotFound
	}
	return d, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO appointments (patient_id, doctor_id, service_id, appointment_date, appointment_time, notes, status)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7)
		RETURNING id, created_at`,
		a.PatientID, a.DoctorID, a.ServiceID, a.Date, a.Time, a.Notes, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if db.IsForeignKeyViolation(err) {
		return ErrUnknownService
	}
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*AppointmentDetail, error) {
	out, err := r.list(ctx, `
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list appointments for patient %d: %w", patientID, err)
	}
	return out, nil
}

func (r *appointmentRepoPG) ListOpenForDoctor(ctx context.Context, doctorID int64) ([]*AppointmentDetail, error) {
	out, err := r.list(ctx, `
		WHERE (a.doctor_id = $1 OR a.doctor_id IS NULL) AND a.status = $2
		ORDER BY a.appointment_date, a.appointment_time, a.id`, doctorID, StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("list appointments for doctor %d: %w", doctorID, err)
	}
	return out, nil
}

func (r *appointmentRepoPG) ListScheduledOn(ctx context.Context, date string) ([]*AppointmentDetail, error) {
	out, err := r.list(ctx, `
		WHERE a.appointment_date = $1::date AND a.status = $2
		ORDER BY a.appointment_time, a.id`, date, StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("list appointments on %s: %w", date, err)
	}
	return out, nil
}

func (r *appointmentRepoPG) GetForPatient(ctx context.Context, id, patientID int64) (*AppointmentDetail, error) {
	d, err := r.get(ctx, `WHERE a.id = $1 AND a.patient_id = $2`, id, patientID)
	if err != nil && err != ErrAppointmentNotFound {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return d, err
}

func (r *appointmentRepoPG) GetForDoctor(ctx context.Context, id, doctorID int64) (*AppointmentDetail, error) {
	d, err := r.get(ctx, `WHERE a.id = $1 AND (a.doctor_id = $2 OR a.doctor_id IS NULL)`, id, doctorID)
	if err != nil && err != ErrAppointmentNotFound {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return d, err
}

func (r *appointmentRepoPG) CancelByPatient(ctx context.Context, id, patientID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE appointments SET status = $3
		WHERE id = $1 AND patient_id = $2 AND status IN ($3, $4)`,
		id, patientID, StatusCancelled, StatusScheduled)
	if err != nil {
		return false, fmt.Errorf("cancel appointment %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *appointmentRepoPG) UpdateStatusByDoctor(ctx context.Context, id, doctorID int64, from, to string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE appointments SET status = $4, doctor_id = COALESCE(doctor_id, $2)
		WHERE id = $1 AND (doctor_id = $2 OR doctor_id IS NULL) AND status = $3`,
		id, doctorID, from, to)
	if err != nil {
		return false, fmt.Errorf("update appointment %d status: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *appointmentRepoPG) Claim(ctx context.Context, id, doctorID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE appointments SET doctor_id = $2
		WHERE id = $1 AND doctor_id IS NULL AND status = $3`,
		id, doctorID, StatusScheduled)
	if err != nil {
		return false, fmt.Errorf("claim appointment %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}
