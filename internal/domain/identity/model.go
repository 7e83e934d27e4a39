package identity

import "time"

type Patient struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Doctor struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewDoctor provisions a doctor account; there is no self-registration.
type NewDoctor struct {
	Name           string
	Email          string
	Specialization string
	Password       string
}

type PatientSession struct {
	Token   string   `json:"token"`
	Patient *Patient `json:"patient"`
}

type DoctorSession struct {
	Token  string  `json:"token"`
	Doctor *Doctor `json:"doctor"`
}
