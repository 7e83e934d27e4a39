package catalog

import "context"

type Repository interface {
	List(ctx context.Context) ([]*MedicalService, error)
}
