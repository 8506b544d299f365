package order

import (
	"context"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
)

// CheckoutItem is one order line to snapshot; Price is the unit price frozen
// at purchase time.
type CheckoutItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// CheckoutInput carries everything the atomic checkout write needs.
type CheckoutInput struct {
	OrderNumber       string
	UserID            string
	CartID            string
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	ShippingCost      decimal.Decimal
	Discount          decimal.Decimal
	Total             decimal.Decimal
	ShippingAddressID string
	BillingAddressID  string
	Notes             string
	Items             []CheckoutItem
}

type Repository interface {
	// CreateFromCart inserts the order and its items, decrements stock for
	// every line and soft-deletes the cart's lines in a single transaction.
	// Returns domain.ErrInsufficientStock if any decrement would go negative
	// and domain.ErrAlreadyExists on an order-number collision.
	CreateFromCart(ctx context.Context, in CheckoutInput) (*domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	GetByNumber(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	// GetAny fetches without an ownership scope, for admin and payment flows.
	GetAny(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int, error)
	// SetStatus writes the status unconditionally; transition legality is
	// the caller's concern.
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}
