package campaign

import (
	"context"

	"canteen-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c domain.Campaign) (*domain.Campaign, error)
	Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
	ListActive(ctx context.Context) ([]domain.Campaign, error)
	// Deactivate flips is_active to false for the given campaigns. Expiry
	// only ever moves active to inactive, so last-write-wins races with
	// admin edits are acceptable.
	Deactivate(ctx context.Context, ids []string) error
}
