package repository

import (
	"context"

	"gamestore/internal/domain"
)

// GameFilter narrows game listings.
type GameFilter struct {
	PublishedOnly bool
	Genre         string
	Limit         int
	Offset        int
}

// GameRepository defines persistence operations for the catalog.
type GameRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, game *domain.Game) (int64, error)
	Update(ctx context.Context, game *domain.Game) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Game, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Game, error)
	List(ctx context.Context, filter GameFilter) ([]domain.Game, error)
	Count(ctx context.Context, filter GameFilter) (int64, error)
	SetCoverKey(ctx context.Context, id int64, coverKey string) error
}
