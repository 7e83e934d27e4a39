package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	q querier
}

func NewRepo(q querier) Repository {
	return &repoPG{q: q}
}

func (r *repoPG) List(ctx context.Context) ([]*MedicalService, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, price::float8 FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*MedicalService, error) {
		var s MedicalService
		err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price)
		return &s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan services: %w", err)
	}
	return out, nil
}
