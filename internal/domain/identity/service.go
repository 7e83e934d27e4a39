package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medbook/medbook/internal/platform/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

func NewService(patients PatientRepository, doctors DoctorRepository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{patients: patients, doctors: doctors, hasher: hasher, tokens: tokens}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates a patient account and signs the patient in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*PatientSession, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.patients.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	}
	// a concurrent registration can still win the unique index
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(auth.Identity{ID: p.ID, Email: p.Email, Role: auth.RolePatient})
	if err != nil {
		return nil, err
	}
	return &PatientSession{Token: token, Patient: p}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*PatientSession, error) {
	p, err := s.patients.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(p.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(auth.Identity{ID: p.ID, Email: p.Email, Role: auth.RolePatient})
	if err != nil {
		return nil, err
	}
	return &PatientSession{Token: token, Patient: p}, nil
}

func (s *Service) DoctorLogin(ctx context.Context, req LoginRequest) (*DoctorSession, error) {
	d, err := s.doctors.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(d.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(auth.Identity{ID: d.ID, Email: d.Email, Role: auth.RoleDoctor})
	if err != nil {
		return nil, err
	}
	return &DoctorSession{Token: token, Doctor: d}, nil
}

func (s *Service) checkPassword(hash, plain string) error {
	err := s.hasher.Compare(hash, plain)
	if errors.Is(err, auth.ErrPasswordMismatch) {
		return ErrInvalidCredentials
	}
	return err
}

// CreateDoctor provisions a doctor with a hashed password.
func (s *Service) CreateDoctor(ctx context.Context, nd NewDoctor) (*Doctor, error) {
	nd.Name = strings.TrimSpace(nd.Name)
	nd.Specialization = strings.TrimSpace(nd.Specialization)
	if nd.Name == "" || nd.Specialization == "" {
		return nil, fmt.Errorf("name and specialization are required")
	}
	if len(nd.Password) < 8 {
		return nil, fmt.Errorf("doctor password must be at least 8 characters")
	}
	email := normalizeEmail(nd.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	hash, err := s.hasher.Hash(nd.Password)
	if err != nil {
		return nil, err
	}
	d := &Doctor{Name: nd.Name, Email: email, Specialization: nd.Specialization, PasswordHash: hash}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
