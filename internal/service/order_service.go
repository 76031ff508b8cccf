package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gamestore/internal/domain"
	"gamestore/internal/repository"
)

// ErrCartEmpty rejects checkout of a cart with no lines.
var ErrCartEmpty = errors.New("cart is empty")

// StoreStats is the admin dashboard aggregate.
type StoreStats struct {
	Users        int64
	Games        int64
	Orders       int64
	RevenueCents int64
}

// OrderService handles checkout and order history.
type OrderService interface {
	Checkout(ctx context.Context, cartID string, userID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	Stats(ctx context.Context) (StoreStats, error)
}

type orderService struct {
	orders repository.OrderRepository
	carts  repository.CartRepository
	games  repository.GameRepository
	users  repository.UserRepository
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, games repository.GameRepository, users repository.UserRepository) OrderService {
	return &orderService{
		orders: orders,
		carts:  carts,
		games:  games,
		users:  users,
	}
}

// Checkout snapshots the cart into an order. Titles and unit prices are copied
// at their current values so later catalog edits never rewrite history, then the
// cart is emptied.
func (s *orderService) Checkout(ctx context.Context, cartID string, userID int64) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	order := &domain.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Status:    domain.OrderStatusPaid,
	}

	for _, line := range cart.Items {
		game, err := s.games.GetByID(ctx, line.GameID)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				// the game was removed after it was carted; skip the line
				continue
			}
			return nil, err
		}
		item := domain.OrderItem{
			GameID:         game.ID,
			Title:          game.Title,
			UnitPriceCents: game.EffectivePriceCents(),
			Quantity:       line.Quantity,
		}
		order.TotalCents += item.UnitPriceCents * int64(item.Quantity)
		order.Items = append(order.Items, item)
	}
	if len(order.Items) == 0 {
		return nil, ErrCartEmpty
	}

	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// the order is committed at this point; a cart that failed to empty is
	// stale data, not a failed purchase
	if err := s.carts.Clear(ctx, cartID); err != nil {
		logrus.WithError(err).Warnf("clear cart %s after checkout", cartID)
	}

	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *orderService) Stats(ctx context.Context) (StoreStats, error) {
	var stats StoreStats
	var err error

	if stats.Users, err = s.users.Count(ctx); err != nil {
		return StoreStats{}, err
	}
	if stats.Games, err = s.games.Count(ctx, repository.GameFilter{}); err != nil {
		return StoreStats{}, err
	}
	if stats.Orders, err = s.orders.Count(ctx); err != nil {
		return StoreStats{}, err
	}
	if stats.RevenueCents, err = s.orders.RevenueCents(ctx); err != nil {
		return StoreStats{}, err
	}
	return stats, nil
}
