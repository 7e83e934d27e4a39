package admin

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*AppointmentRow, int, error) {
	return s.repo.ListAppointments(ctx, limit, offset)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*PatientSummary, int, error) {
	return s.repo.ListPatients(ctx, limit, offset)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorSummary, int, error) {
	return s.repo.ListDoctors(ctx, limit, offset)
}

// Statistics reports totals plus the appointments falling on the current UTC date.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx, s.now().UTC().Format("2006-01-02"))
}
