package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamestore/internal/domain"
	"gamestore/internal/repository"
)

const createCartsTable = `
CREATE TABLE IF NOT EXISTS carts (
	id TEXT PRIMARY KEY,
	user_id INTEGER NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS cart_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cart_id TEXT NOT NULL,
	game_id INTEGER NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 1,
	UNIQUE(cart_id, game_id),
	FOREIGN KEY(cart_id) REFERENCES carts(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
`

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCartsTable); err != nil {
		return fmt.Errorf("create carts tables: %w", err)
	}
	return nil
}

func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO carts (id, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		cart.ID,
		cart.UserID,
		cart.CreatedAt,
		cart.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (r *CartRepository) Get(ctx context.Context, id string) (*domain.Cart, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, created_at, updated_at
FROM carts
WHERE id = ?`,
		id,
	)

	var (
		cart   domain.Cart
		userID sql.NullInt64
	)
	if err := row.Scan(&cart.ID, &userID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cart not found")
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}
	if userID.Valid {
		cart.UserID = &userID.Int64
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, cart_id, game_id, quantity
FROM cart_items
WHERE cart_id = ?
ORDER BY id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.GameID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	return &cart, rows.Err()
}

func (r *CartRepository) UpsertItem(ctx context.Context, cartID string, gameID int64, quantity int) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO cart_items (cart_id, game_id, quantity)
VALUES (?, ?, ?)
ON CONFLICT(cart_id, game_id) DO UPDATE SET quantity = excluded.quantity`,
		cartID, gameID, quantity,
	); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) DeleteItem(ctx context.Context, cartID string, gameID int64) error {
	if _, err := r.db.ExecContext(ctx, `
DELETE FROM cart_items WHERE cart_id=? AND game_id=?`, cartID, gameID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id=?`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) AttachUser(ctx context.Context, cartID string, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE carts SET user_id=?, updated_at=? WHERE id=?`,
		userID, time.Now().UTC(), cartID); err != nil {
		return fmt.Errorf("attach cart user: %w", err)
	}
	return nil
}

func (r *CartRepository) touch(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE carts SET updated_at=? WHERE id=?`, time.Now().UTC(), cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
