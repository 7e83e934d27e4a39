package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func runAuthenticate(t *testing.T, header string) (Identity, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	var found bool
	handler := func(c echo.Context) error {
		got, found = IdentityFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	}

	err := Authenticate(NewTokenService(testSigningKey, time.Hour))(handler)(c)
	return got, found, err
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected HTTP %d, got nil error", code)
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != code {
		t.Errorf("expected %d, got %d", code, httpErr.Code)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	_, _, err := runAuthenticate(t, "")
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestAuthenticate_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"missing token", "Bearer"},
		{"empty value", "Bearer "},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runAuthenticate(t, tt.header)
			expectStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	_, _, err := runAuthenticate(t, "Bearer not.a.jwt")
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tok, err := NewTokenService(testSigningKey, time.Hour).Issue(Identity{ID: 5, Email: "jane@example.com", Role: RolePatient})
	if err != nil {
		t.Fatal(err)
	}

	id, found, err := runAuthenticate(t, "bearer "+tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected identity on request context")
	}
	if id.ID != 5 || id.Role != RolePatient {
		t.Errorf("unexpected identity %+v", id)
	}
}
