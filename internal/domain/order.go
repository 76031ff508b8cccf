package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a checked-out cart. Line items carry the title and unit price as they
// were at purchase time, so later catalog edits never rewrite order history.
type Order struct {
	ID         int64
	Reference  string
	UserID     int64
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem is a purchased line within an order.
type OrderItem struct {
	ID             int64
	OrderID        int64
	GameID         int64
	Title          string
	UnitPriceCents int64
	Quantity       int
}
