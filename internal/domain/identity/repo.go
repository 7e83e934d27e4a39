package identity

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type PatientRepository interface {
	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, p *Patient) error
	GetByEmail(ctx context.Context, email string) (*Patient, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByEmail(ctx context.Context, email string) (*Doctor, error)
}
