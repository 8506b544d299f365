package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is created lazily on first access, one per user. Subtotal and
// ItemCount are derived from live catalog prices at read time; they are
// never stored. Order totals, by contrast, are frozen at checkout.
type Cart struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CartItem is one live (product, quantity) line. Removal soft-deletes the
// row; at most one non-removed line exists per (cart, product) pair.
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
