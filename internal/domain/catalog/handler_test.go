package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type mockRepo struct {
	items []*MedicalService
	err   error
}

func (m *mockRepo) List(context.Context) ([]*MedicalService, error) {
	return m.items, m.err
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func listServices(t *testing.T, repo Repository) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rec := httptest.NewRecorder()
	return rec, NewHandler(NewService(repo)).List(e.NewContext(req, rec))
}

func TestHandler_List(t *testing.T) {
	repo := &mockRepo{items: []*MedicalService{
		{ID: 1, Name: "Cardiology", Description: strPtr("Heart care"), Price: floatPtr(1200)},
		{ID: 2, Name: "Emergency"},
	}}

	rec, err := listServices(t, repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 services, got %d", len(got))
	}
	if got[0]["price"].(float64) != 1200 {
		t.Errorf("unexpected price %v", got[0]["price"])
	}
	if got[1]["description"] != nil || got[1]["price"] != nil {
		t.Errorf("expected null description and price, got %v", got[1])
	}
}

func TestHandler_List_Empty(t *testing.T) {
	rec, err := listServices(t, &mockRepo{})
	if err != nil {
		t.Fatal(err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestHandler_List_StoreError(t *testing.T) {
	_, err := listServices(t, &mockRepo{err: errors.New("db down")})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if httpErr.Message != "internal server error" {
		t.Errorf("expected generic message, got %v", httpErr.Message)
	}
}
