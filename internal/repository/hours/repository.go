package hours

import (
	"context"

	"canteen-backend/internal/domain"
)

type Repository interface {
	Get(ctx context.Context) (*domain.ServiceHours, error)
	// Upsert writes the singleton row, creating it if absent.
	Upsert(ctx context.Context, h domain.ServiceHours) (*domain.ServiceHours, error)
}
