package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamestore/internal/domain"
	"gamestore/internal/repository"
)

const createGamesTable = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	genre TEXT NOT NULL DEFAULT '',
	price_cents INTEGER NOT NULL DEFAULT 0,
	discount_percent INTEGER NOT NULL DEFAULT 0,
	cover_key TEXT NOT NULL DEFAULT '',
	published INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_genre ON games(genre);
`

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGamesTable); err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) (int64, error) {
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO games (title, slug, description, genre, price_cents, discount_percent, cover_key, published, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.Title,
		game.Slug,
		game.Description,
		game.Genre,
		game.PriceCents,
		game.DiscountPercent,
		game.CoverKey,
		game.Published,
		game.CreatedAt,
		game.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("game already exists: %w", err)
		}
		return 0, fmt.Errorf("insert game: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("game last insert id: %w", err)
	}
	game.ID = id
	return id, nil
}

func (r *GameRepository) Update(ctx context.Context, game *domain.Game) error {
	game.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE games
SET title=?, slug=?, description=?, genre=?, price_cents=?, discount_percent=?, published=?, updated_at=?
WHERE id=?`,
		game.Title,
		game.Slug,
		game.Description,
		game.Genre,
		game.PriceCents,
		game.DiscountPercent,
		game.Published,
		game.UpdatedAt,
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return requireRowAffected(res, "game")
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return requireRowAffected(res, "game")
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, slug, description, genre, price_cents, discount_percent, cover_key, published, created_at, updated_at
FROM games
WHERE id = ?`,
		id,
	)
	return scanGame(row)
}

func (r *GameRepository) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, slug, description, genre, price_cents, discount_percent, cover_key, published, created_at, updated_at
FROM games
WHERE slug = ?`,
		slug,
	)
	return scanGame(row)
}

func (r *GameRepository) List(ctx context.Context, filter repository.GameFilter) ([]domain.Game, error) {
	where, args := gameFilterClause(filter)
	query := fmt.Sprintf(`
SELECT id, title, slug, description, genre, price_cents, discount_percent, cover_key, published, created_at, updated_at
FROM games
%s
ORDER BY id DESC`, where)

	if filter.Limit > 0 {
		query += "\nLIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}

	return games, rows.Err()
}

func (r *GameRepository) Count(ctx context.Context, filter repository.GameFilter) (int64, error) {
	where, args := gameFilterClause(filter)
	var n int64
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM games %s`, where), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

func (r *GameRepository) SetCoverKey(ctx context.Context, id int64, coverKey string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE games SET cover_key=?, updated_at=? WHERE id=?`,
		coverKey, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set cover key: %w", err)
	}
	return requireRowAffected(res, "game")
}

func gameFilterClause(filter repository.GameFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.PublishedOnly {
		conds = append(conds, "published = 1")
	}
	if filter.Genre != "" {
		conds = append(conds, "genre = ?")
		args = append(args, filter.Genre)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanGame(scanner interface {
	Scan(dest ...any) error
}) (*domain.Game, error) {
	var game domain.Game
	if err := scanner.Scan(
		&game.ID,
		&game.Title,
		&game.Slug,
		&game.Description,
		&game.Genre,
		&game.PriceCents,
		&game.DiscountPercent,
		&game.CoverKey,
		&game.Published,
		&game.CreatedAt,
		&game.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game not found")
		}
		return nil, fmt.Errorf("scan game: %w", err)
	}
	return &game, nil
}

func requireRowAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found", entity)
	}
	return nil
}
