package pushtoken

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

func (r *postgresRepo) Upsert(ctx context.Context, deviceID, fcmToken string) error {
	const q = `
INSERT INTO push_tokens (device_id, fcm_token)
VALUES ($1, $2)
ON CONFLICT (device_id) DO UPDATE SET fcm_token = EXCLUDED.fcm_token, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, deviceID, fcmToken)
	return err
}

func (r *postgresRepo) GetByDevice(ctx context.Context, deviceID string) (string, error) {
	var token string
	err := r.pool.QueryRow(ctx, `SELECT fcm_token FROM push_tokens WHERE device_id = $1`, deviceID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return token, nil
}
