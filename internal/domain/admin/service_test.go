package admin

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	appts    []*AppointmentRow
	patients []*PatientSummary
	doctors  []*DoctorSummary
	stats    Statistics
	today    string
	err      error
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (m *mockRepo) ListAppointments(_ context.Context, limit, offset int) ([]*AppointmentRow, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return page(m.appts, limit, offset), len(m.appts), nil
}

func (m *mockRepo) ListPatients(_ context.Context, limit, offset int) ([]*PatientSummary, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return page(m.patients, limit, offset), len(m.patients), nil
}

func (m *mockRepo) ListDoctors(_ context.Context, limit, offset int) ([]*DoctorSummary, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return page(m.doctors, limit, offset), len(m.doctors), nil
}

func (m *mockRepo) Statistics(_ context.Context, today string) (*Statistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.today = today
	s := m.stats
	return &s, nil
}

func TestService_Statistics_UsesUTCDate(t *testing.T) {
	repo := &mockRepo{stats: Statistics{TotalAppointments: 5, TodayAppointments: 2, TotalPatients: 3, TotalDoctors: 6}}
	svc := NewService(repo)
	// 23:30 at UTC-5 is already the next day in UTC
	svc.now = func() time.Time {
		return time.Date(2030, 1, 15, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	}

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.today != "2030-01-16" {
		t.Errorf("expected UTC date 2030-01-16, got %s", repo.today)
	}
	if stats.TodayAppointments != 2 || stats.TotalDoctors != 6 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestService_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(&mockRepo{err: boom})
	ctx := context.Background()

	if _, _, err := svc.ListAppointments(ctx, 10, 0); !errors.Is(err, boom) {
		t.Errorf("ListAppointments: expected %v, got %v", boom, err)
	}
	if _, _, err := svc.ListPatients(ctx, 10, 0); !errors.Is(err, boom) {
		t.Errorf("ListPatients: expected %v, got %v", boom, err)
	}
	if _, _, err := svc.ListDoctors(ctx, 10, 0); !errors.Is(err, boom) {
		t.Errorf("ListDoctors: expected %v, got %v", boom, err)
	}
	if _, err := svc.Statistics(ctx); !errors.Is(err, boom) {
		t.Errorf("Statistics: expected %v, got %v", boom, err)
	}
}
