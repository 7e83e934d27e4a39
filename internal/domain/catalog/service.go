package catalog

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every service; an empty catalog yields an empty slice.
func (s *Service) List(ctx context.Context) ([]*MedicalService, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*MedicalService{}
	}
	return items, nil
}
