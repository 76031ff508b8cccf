package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gamestore/internal/domain"
	"gamestore/internal/repository"
)

// ErrGameNotFound is returned for missing games and, on the public surface, for
// unpublished ones.
var ErrGameNotFound = errors.New("game not found")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CatalogService coordinates catalog reads for the storefront and writes for the
// admin surface.
type CatalogService interface {
	ListPublished(ctx context.Context, page, pageSize int, genre string) ([]domain.Game, int64, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Game, error)
	GetByID(ctx context.Context, id int64) (*domain.Game, error)
	ListAll(ctx context.Context) ([]domain.Game, error)
	CountAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, game *domain.Game) (*domain.Game, error)
	Update(ctx context.Context, game *domain.Game) error
	Delete(ctx context.Context, id int64) error
	SetCover(ctx context.Context, id int64, coverKey string) error
}

type catalogService struct {
	games repository.GameRepository
}

func NewCatalogService(games repository.GameRepository) CatalogService {
	return &catalogService{games: games}
}

func (s *catalogService) ListPublished(ctx context.Context, page, pageSize int, genre string) ([]domain.Game, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.GameFilter{
		PublishedOnly: true,
		Genre:         strings.TrimSpace(genre),
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	}

	games, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.games.Count(ctx, repository.GameFilter{PublishedOnly: true, Genre: filter.Genre})
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func (s *catalogService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	game, err := s.games.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if !game.Published {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (s *catalogService) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]domain.Game, error) {
	return s.games.List(ctx, repository.GameFilter{})
}

func (s *catalogService) CountAll(ctx context.Context) (int64, error) {
	return s.games.Count(ctx, repository.GameFilter{})
}

func (s *catalogService) Create(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	if err := validateGame(game); err != nil {
		return nil, err
	}
	if game.Slug == "" {
		game.Slug = Slugify(game.Title)
	}
	if _, err := s.games.Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *catalogService) Update(ctx context.Context, game *domain.Game) error {
	if game.ID <= 0 {
		return errors.New("game id is required")
	}
	if err := validateGame(game); err != nil {
		return err
	}
	if game.Slug == "" {
		game.Slug = Slugify(game.Title)
	}
	if err := s.games.Update(ctx, game); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return ErrGameNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	if err := s.games.Delete(ctx, id); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return ErrGameNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) SetCover(ctx context.Context, id int64, coverKey string) error {
	if err := s.games.SetCoverKey(ctx, id, coverKey); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return ErrGameNotFound
		}
		return err
	}
	return nil
}

func validateGame(game *domain.Game) error {
	game.Title = strings.TrimSpace(game.Title)
	game.Slug = strings.TrimSpace(game.Slug)
	game.Genre = strings.TrimSpace(game.Genre)

	if game.Title == "" {
		return errors.New("title is required")
	}
	if game.PriceCents < 0 {
		return errors.New("price must not be negative")
	}
	if game.DiscountPercent < 0 || game.DiscountPercent > 100 {
		return errors.New("discount must be between 0 and 100")
	}
	return nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}
