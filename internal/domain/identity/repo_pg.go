package identity

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

// -- Patient Repository --

type patientRepoPG struct {
	q querier
}

func NewPatientRepo(q querier) PatientRepository {
	return &patientRepoPG{q: q}
}

const patientCols = `id, name, email, phone, password_hash, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.PasswordHash, &p.CreatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO patients (name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		p.Name, p.Email, p.Phone, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE email = $1`, email))
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("get patient by email: %w", err)
	}
	return p, err
}

// -- Doctor Repository --

type doctorRepoPG struct {
	q querier
}

func NewDoctorRepo(q querier) DoctorRepository {
	return &doctorRepoPG{q: q}
}

const doctorCols = `id, name, email, specialization, password_hash, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Email, &d.Specialization, &d.PasswordHash, &d.CreatedAt)
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO doctors (name, email, specialization, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		d.Name, d.Email, d.Specialization, d.PasswordHash,
	).Scan(&d.ID, &d.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *doctorRepoPG) GetByEmail(ctx context.Context, email string) (*Doctor, error) {
	d, err := scanDoctor(r.q.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE email = $1`, email))
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("get doctor by email: %w", err)
	}
	return d, err
}
