package staff

import (
	"context"

	"canteen-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, s domain.Staff) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
}
