package validate

import (
	"strings"
	"testing"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Date  string `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	Count int    `json:"count" validate:"gt=0"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestValidate_OK(t *testing.T) {
	err := New().Validate(&sample{Email: "jane@example.com", Date: "2024-06-01", Count: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := New().Validate(&sample{Email: "nope", Date: "06/01/2024", Kind: "c"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"email must be a valid email",
		"appointment_date must match 2006-01-02",
		"count must be greater than 0",
		"kind must be one of [a b]",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(&sample{Count: 1})
	if err == nil || !strings.Contains(err.Error(), "email is required") {
		t.Errorf("expected required error, got %v", err)
	}
}

type credentials struct {
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

func TestValidate_PasswordByteLength(t *testing.T) {
	v := New()
	if err := v.Validate(&credentials{Password: strings.Repeat("a", 72)}); err != nil {
		t.Errorf("72 ascii bytes should pass, got %v", err)
	}

	// 40 runes but 80 bytes
	err := v.Validate(&credentials{Password: strings.Repeat("é", 40)})
	if err == nil || !strings.Contains(err.Error(), "password must be at most 72 bytes") {
		t.Errorf("expected byte length error, got %v", err)
	}
}
