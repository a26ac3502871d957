package staff

import (
	"context"
	"errors"

	"canteen-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const columns = `id::text, name, username, email, password_hash, role, created_at`

func (r *postgresRepo) Create(ctx context.Context, s domain.Staff) (*domain.Staff, error) {
	const q = `
INSERT INTO staff (name, username, email, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, created_at
`
	out := s
	if err := r.pool.QueryRow(ctx, q, s.Name, s.Username, s.Email, s.PasswordHash, s.Role).Scan(&out.ID, &out.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const q = `SELECT ` + columns + ` FROM staff WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const q = `SELECT ` + columns + ` FROM staff WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanOne(row pgx.Row) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Username, &s.Email, &s.PasswordHash, &s.Role, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
