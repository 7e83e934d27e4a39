package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	q querier
}

func NewRepo(q querier) Repository {
	return &repoPG{q: q}
}

func (r *repoPG) count(ctx context.Context, table string) (int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

func (r *repoPG) ListAppointments(ctx context.Context, limit, offset int) ([]*AppointmentRow, int, error) {
	total, err := r.count(ctx, "appointments")
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.service_id,
			to_char(a.appointment_date, 'YYYY-MM-DD'), to_char(a.appointment_time, 'HH24:MI'),
			a.notes, a.status, a.created_at,
			p.name, d.name, s.name
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		LEFT JOIN doctors d ON d.id = a.doctor_id
		LEFT JOIN services s ON s.id = a.service_id
		ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := []*AppointmentRow{}
	for rows.Next() {
		var a AppointmentRow
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.ServiceID,
			&a.Date, &a.Time,
			&a.Notes, &a.Status, &a.CreatedAt,
			&a.PatientName, &a.DoctorName, &a.ServiceName,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, &a)
	}
	return out, total, rows.Err()
}

func (r *repoPG) ListPatients(ctx context.Context, limit, offset int) ([]*PatientSummary, int, error) {
	total, err := r.count(ctx, "patients")
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, p.email, p.phone, p.created_at, COUNT(a.id)
		FROM patients p
		LEFT JOIN appointments a ON a.patient_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	out := []*PatientSummary{}
	for rows.Next() {
		var p PatientSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.AppointmentCount); err != nil {
			return nil, 0, err
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *repoPG) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorSummary, int, error) {
	total, err := r.count(ctx, "doctors")
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT d.id, d.name, d.email, d.specialization, COUNT(a.id)
		FROM doctors d
		LEFT JOIN appointments a ON a.doctor_id = d.id
		GROUP BY d.id
		ORDER BY d.name ASC, d.id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	out := []*DoctorSummary{}
	for rows.Next() {
		var d DoctorSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Specialization, &d.AppointmentCount); err != nil {
			return nil, 0, err
		}
		out = append(out, &d)
	}
	return out, total, rows.Err()
}

func (r *repoPG) Statistics(ctx context.Context, today string) (*Statistics, error) {
	var s Statistics
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM appointments WHERE appointment_date = $1::date),
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM doctors)`, today,
	).Scan(&s.TotalAppointments, &s.TodayAppointments, &s.TotalPatients, &s.TotalDoctors)
	if err != nil {
		return nil, fmt.Errorf("admin statistics: %w", err)
	}
	return &s, nil
}
