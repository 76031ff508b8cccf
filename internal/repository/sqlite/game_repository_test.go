package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/domain"
	"gamestore/internal/repository"
)

func seedGame(t *testing.T, repo repository.GameRepository, title, slug, genre string, published bool) *domain.Game {
	t.Helper()
	game := &domain.Game{
		Title:      title,
		Slug:       slug,
		Genre:      genre,
		PriceCents: 5999,
		Published:  published,
	}
	_, err := repo.Create(context.Background(), game)
	require.NoError(t, err)
	return game
}

func TestGameRepositoryListFilters(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewGameRepository(db)
	ctx := context.Background()

	seedGame(t, repo, "Star Drifter", "star-drifter", "rpg", true)
	seedGame(t, repo, "Night Circuit", "night-circuit", "racing", true)
	seedGame(t, repo, "Hidden Depths", "hidden-depths", "rpg", false)

	published, err := repo.List(ctx, repository.GameFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	rpg, err := repo.List(ctx, repository.GameFilter{PublishedOnly: true, Genre: "rpg"})
	require.NoError(t, err)
	require.Len(t, rpg, 1)
	assert.Equal(t, "star-drifter", rpg[0].Slug)

	all, err := repo.List(ctx, repository.GameFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	total, err := repo.Count(ctx, repository.GameFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGameRepositoryPagination(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewGameRepository(db)
	ctx := context.Background()

	seedGame(t, repo, "One", "one", "indie", true)
	seedGame(t, repo, "Two", "two", "indie", true)
	seedGame(t, repo, "Three", "three", "indie", true)

	page, err := repo.List(ctx, repository.GameFilter{PublishedOnly: true, Limit: 2, Offset: 0})
	require.NoError(t, err)
	require.Len(t, page, 2)
	// newest first
	assert.Equal(t, "three", page[0].Slug)

	page, err = repo.List(ctx, repository.GameFilter{PublishedOnly: true, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Slug)
}

func TestGameRepositoryUpdateAndCover(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewGameRepository(db)
	ctx := context.Background()

	game := seedGame(t, repo, "Draft", "draft", "indie", false)

	game.Title = "Final"
	game.Published = true
	require.NoError(t, repo.Update(ctx, game))

	require.NoError(t, repo.SetCoverKey(ctx, game.ID, "covers/game-1.png"))

	got, err := repo.GetBySlug(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.True(t, got.Published)
	assert.Equal(t, "covers/game-1.png", got.CoverKey)
}

func TestGameRepositoryDelete(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewGameRepository(db)
	ctx := context.Background()

	game := seedGame(t, repo, "Short Lived", "short-lived", "indie", true)
	require.NoError(t, repo.Delete(ctx, game.ID))

	_, err := repo.GetByID(ctx, game.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = repo.Delete(ctx, game.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGameRepositoryDuplicateSlug(t *testing.T) {
	db := openTestDB(t)
	initAll(t, db)
	repo := NewGameRepository(db)

	seedGame(t, repo, "Original", "same-slug", "indie", true)
	_, err := repo.Create(context.Background(), &domain.Game{Title: "Copy", Slug: "same-slug"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
