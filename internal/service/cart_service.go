package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"gamestore/internal/domain"
	"gamestore/internal/repository"
)

var (
	// ErrCartNotFound is returned when the cart cookie references a cart that no
	// longer exists.
	ErrCartNotFound = errors.New("cart not found")
	// ErrInvalidQuantity rejects non-positive line quantities.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// CartService manages visitor carts. Carts are addressed by a random ID carried
// in a cookie, so no login is needed to build one.
type CartService interface {
	Create(ctx context.Context) (*domain.Cart, error)
	Get(ctx context.Context, id string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, gameID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID string, gameID int64) (*domain.Cart, error)
	AttachUser(ctx context.Context, cartID string, userID int64) error
}

type cartService struct {
	carts repository.CartRepository
	games repository.GameRepository
}

func NewCartService(carts repository.CartRepository, games repository.GameRepository) CartService {
	return &cartService{carts: carts, games: games}
}

func (s *cartService) Create(ctx context.Context) (*domain.Cart, error) {
	cart := &domain.Cart{ID: uuid.NewString()}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Get(ctx context.Context, id string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID string, gameID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if !game.Published {
		return nil, ErrGameNotFound
	}

	if err := s.carts.UpsertItem(ctx, cartID, gameID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

func (s *cartService) RemoveItem(ctx context.Context, cartID string, gameID int64) (*domain.Cart, error) {
	if err := s.carts.DeleteItem(ctx, cartID, gameID); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

func (s *cartService) AttachUser(ctx context.Context, cartID string, userID int64) error {
	return s.carts.AttachUser(ctx, cartID, userID)
}
