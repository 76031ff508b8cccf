package domain

import "time"

// Cart holds the games a visitor intends to buy. Carts are keyed by a random ID
// carried in a cookie so anonymous visitors can build one before logging in.
type Cart struct {
	ID        string
	UserID    *int64
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a single line of a cart.
type CartItem struct {
	ID       int64
	CartID   string
	GameID   int64
	Quantity int
}
