package order

import (
	"context"
	"time"

	"canteen-backend/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByBillNumber(ctx context.Context, billNumber string) (*domain.Order, error)
	GetByLookupToken(ctx context.Context, token string) (*domain.Order, error)
	ListByDevice(ctx context.Context, deviceID string) ([]domain.Order, error)
	// ListKitchen returns paid orders still in the kitchen (PLACED or
	// PREPARING), oldest first.
	ListKitchen(ctx context.Context) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, billNumber string, status domain.OrderStatus, deliveredAt *time.Time) error
	MarkItemDelivered(ctx context.Context, billNumber string, position int, deliveredAt time.Time) error
}
