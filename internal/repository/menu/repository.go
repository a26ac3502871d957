package menu

import (
	"context"

	"canteen-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	Update(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	List(ctx context.Context) ([]domain.MenuItem, error)
	ListInStock(ctx context.Context) ([]domain.MenuItem, error)
}
