package repository

import (
	"context"

	"gamestore/internal/domain"
)

// OrderRepository defines persistence operations for orders. Create stores the
// order and its items atomically.
type OrderRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, order *domain.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Count(ctx context.Context) (int64, error)
	RevenueCents(ctx context.Context) (int64, error)
}
