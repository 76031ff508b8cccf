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

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reference TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	status TEXT NOT NULL,
	total_cents INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
CREATE TABLE IF NOT EXISTS order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL,
	game_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	unit_price_cents INTEGER NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 1,
	FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createOrdersTable); err != nil {
		return fmt.Errorf("create orders tables: %w", err)
	}
	return nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (int64, error) {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (reference, user_id, status, total_cents, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		order.Reference,
		order.UserID,
		string(order.Status),
		order.TotalCents,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order last insert id: %w", err)
	}
	order.ID = id

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = id
		res, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, game_id, title, unit_price_cents, quantity)
VALUES (?, ?, ?, ?, ?)`,
			item.OrderID,
			item.GameID,
			item.Title,
			item.UnitPriceCents,
			item.Quantity,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("order item last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, reference, user_id, status, total_cents, created_at, updated_at
FROM orders
WHERE id = ?`,
		id,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT id, reference, user_id, status, total_cents, created_at, updated_at
FROM orders
WHERE user_id = ?
ORDER BY id DESC`, userID)
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `
SELECT id, reference, user_id, status, total_cents, created_at, updated_at
FROM orders
ORDER BY id DESC`)
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *OrderRepository) RevenueCents(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `
SELECT SUM(total_cents) FROM orders WHERE status != ?`,
		string(domain.OrderStatusCancelled),
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum order totals: %w", err)
	}
	return total.Int64, nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, order_id, game_id, title, unit_price_cents, quantity
FROM order_items
WHERE order_id = ?
ORDER BY id ASC`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.GameID, &item.Title, &item.UnitPriceCents, &item.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func scanOrder(scanner interface {
	Scan(dest ...any) error
}) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := scanner.Scan(
		&order.ID,
		&order.Reference,
		&order.UserID,
		&status,
		&order.TotalCents,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}
