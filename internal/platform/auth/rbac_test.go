package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRequireRole(t *testing.T, id *Identity, roles ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	return rec, RequireRole(roles...)(handler)(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	rec, err := runRequireRole(t, &Identity{ID: 1, Role: RoleDoctor}, RoleDoctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	_, err := runRequireRole(t, &Identity{ID: 1, Role: RolePatient}, RoleDoctor)
	expectStatus(t, err, http.StatusForbidden)
}

func TestRequireRole_AnyOf(t *testing.T) {
	_, err := runRequireRole(t, &Identity{ID: 1, Role: RolePatient}, RoleDoctor, RolePatient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_NoIdentity(t *testing.T) {
	_, err := runRequireRole(t, nil, RolePatient)
	expectStatus(t, err, http.StatusUnauthorized)
}
