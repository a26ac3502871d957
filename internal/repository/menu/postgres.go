package menu

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

const columns = `id::text, name, price, category, sub_category, image_url, stock, created_at`

func (r *postgresRepo) Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	const q = `
INSERT INTO menu_items (name, price, category, sub_category, image_url, stock)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
	out := item
	if err := r.pool.QueryRow(ctx, q, item.Name, item.Price, item.Category, item.SubCategory, item.ImageURL, item.Stock).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	const q = `
UPDATE menu_items
SET name = $1, price = $2, category = $3, sub_category = $4, image_url = $5, stock = $6
WHERE id = $7
RETURNING ` + columns
	var out domain.MenuItem
	err := r.pool.QueryRow(ctx, q, item.Name, item.Price, item.Category, item.SubCategory, item.ImageURL, item.Stock, item.ID).Scan(
		&out.ID, &out.Name, &out.Price, &out.Category, &out.SubCategory, &out.ImageURL, &out.Stock, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	const q = `SELECT ` + columns + ` FROM menu_items WHERE id = $1`
	var item domain.MenuItem
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Category, &item.SubCategory, &item.ImageURL, &item.Stock, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.MenuItem, error) {
	return r.list(ctx, `SELECT `+columns+` FROM menu_items ORDER BY category, name`)
}

func (r *postgresRepo) ListInStock(ctx context.Context) ([]domain.MenuItem, error) {
	return r.list(ctx, `SELECT `+columns+` FROM menu_items WHERE stock > 0 ORDER BY category, name`)
}

func (r *postgresRepo) list(ctx context.Context, q string) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Category, &item.SubCategory, &item.ImageURL, &item.Stock, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
