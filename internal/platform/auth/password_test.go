package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := h.Compare(hash, "s3cret"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestPasswordHasher_SaltsEachHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	a, _ := h.Hash("password")
	b, _ := h.Hash("password")
	if a == b {
		t.Error("expected distinct hashes for the same password")
	}
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewPasswordHasher(99)
	if h.cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", h.cost)
	}
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	err := h.Compare("password", "password")
	if err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected non-mismatch error for malformed hash, got %v", err)
	}
}

func TestPasswordHasher_RejectsOverlongBytes(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("é", 40)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong for 80 bytes, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Errorf("72 bytes should hash, got %v", err)
	}
}
