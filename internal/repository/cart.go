package repository

import (
	"context"

	"gamestore/internal/domain"
)

// CartRepository defines persistence operations for carts and their lines.
type CartRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, cart *domain.Cart) error
	Get(ctx context.Context, id string) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID string, gameID int64, quantity int) error
	DeleteItem(ctx context.Context, cartID string, gameID int64) error
	Clear(ctx context.Context, cartID string) error
	AttachUser(ctx context.Context, cartID string, userID int64) error
}
