package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	if !IsUniqueViolation(dup) {
		t.Error("expected unique violation to be detected")
	}
	if !IsUniqueViolation(fmt.Errorf("insert patient: %w", dup)) {
		t.Error("expected wrapped unique violation to be detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation must not be reported as unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error must not be reported as unique violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	if !IsForeignKeyViolation(fmt.Errorf("insert appointment: %w", fk)) {
		t.Error("expected foreign key violation to be detected")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation must not be reported as foreign key violation")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("get appointment: %w", pgx.ErrNoRows)) {
		t.Error("expected wrapped ErrNoRows to be detected")
	}
	if IsNoRows(errors.New("other")) {
		t.Error("unexpected match for unrelated error")
	}
}
