package hours

import (
	"context"
	"errors"

	"canteen-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context) (*domain.ServiceHours, error) {
	const q = `
SELECT breakfast_start, breakfast_end, lunch_start, lunch_end, updated_at
FROM service_hours
WHERE id = 1
`
	var h domain.ServiceHours
	err := r.pool.QueryRow(ctx, q).Scan(
		&h.Breakfast.Start,
		&h.Breakfast.End,
		&h.Lunch.Start,
		&h.Lunch.End,
		&h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, h domain.ServiceHours) (*domain.ServiceHours, error) {
	const q = `
INSERT INTO service_hours (id, breakfast_start, breakfast_end, lunch_start, lunch_end)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    breakfast_start = EXCLUDED.breakfast_start,
    breakfast_end = EXCLUDED.breakfast_end,
    lunch_start = EXCLUDED.lunch_start,
    lunch_end = EXCLUDED.lunch_end,
    updated_at = now()
RETURNING breakfast_start, breakfast_end, lunch_start, lunch_end, updated_at
`
	var out domain.ServiceHours
	err := r.pool.QueryRow(ctx, q, h.Breakfast.Start, h.Breakfast.End, h.Lunch.Start, h.Lunch.End).Scan(
		&out.Breakfast.Start,
		&out.Breakfast.End,
		&out.Lunch.Start,
		&out.Lunch.End,
		&out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
