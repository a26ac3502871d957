package campaign

import (
	"context"
	"errors"
	"io"
	"log"

	"canteen-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const columns = `id::text, name, discount_percent, start_date, end_date, start_time, end_time, applicable_item_ids, is_active, created_at`

func (r *postgresRepo) Create(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	const q = `
INSERT INTO campaigns (name, discount_percent, start_date, end_date, start_time, end_time, applicable_item_ids, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at
`
	out := c
	err := r.pool.QueryRow(ctx, q, c.Name, c.DiscountPercent, c.StartDate, c.EndDate, c.StartTime, c.EndTime, c.ApplicableItemIDs, c.IsActive).
		Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("campaign repo: create name=%s error=%v", c.Name, err)
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	const q = `
UPDATE campaigns
SET name = $1, discount_percent = $2, start_date = $3, end_date = $4, start_time = $5, end_time = $6, applicable_item_ids = $7, is_active = $8
WHERE id = $9
RETURNING ` + columns
	return r.scanOne(r.pool.QueryRow(ctx, q, c.Name, c.DiscountPercent, c.StartDate, c.EndDate, c.StartTime, c.EndTime, c.ApplicableItemIDs, c.IsActive, c.ID))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	const q = `SELECT ` + columns + ` FROM campaigns WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	return r.list(ctx, `SELECT `+columns+` FROM campaigns ORDER BY created_at DESC`)
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Campaign, error) {
	return r.list(ctx, `SELECT `+columns+` FROM campaigns WHERE is_active ORDER BY created_at ASC`)
}

func (r *postgresRepo) Deactivate(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE campaigns SET is_active = false WHERE id::text = ANY($1)`, ids)
	if err != nil {
		r.logger.Printf("campaign repo: deactivate error=%v", err)
		return err
	}
	r.logger.Printf("campaign repo: deactivated expired count=%d", len(ids))
	return nil
}

func (r *postgresRepo) scanOne(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(&c.ID, &c.Name, &c.DiscountPercent, &c.StartDate, &c.EndDate, &c.StartTime, &c.EndTime, &c.ApplicableItemIDs, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) list(ctx context.Context, q string) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.DiscountPercent, &c.StartDate, &c.EndDate, &c.StartTime, &c.EndTime, &c.ApplicableItemIDs, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
