package token

import (
	"context"
	"time"
)

// Token is an opaque bearer credential bound to a staff account.
type Token struct {
	Token     string
	StaffID   string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
