package domain

import "time"

// Game represents a product in the store catalog.
type Game struct {
	ID              int64
	Title           string
	Slug            string
	Description     string
	Genre           string
	PriceCents      int64
	DiscountPercent int
	CoverKey        string
	Published       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectivePriceCents returns the list price with the discount applied.
func (g Game) EffectivePriceCents() int64 {
	if g.DiscountPercent <= 0 {
		return g.PriceCents
	}
	if g.DiscountPercent >= 100 {
		return 0
	}
	return g.PriceCents * int64(100-g.DiscountPercent) / 100
}
