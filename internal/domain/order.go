package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending        OrderStatus = "PENDING"
	OrderConfirmed      OrderStatus = "CONFIRMED"
	OrderProcessing     OrderStatus = "PROCESSING"
	OrderShipped        OrderStatus = "SHIPPED"
	OrderOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCancelled      OrderStatus = "CANCELLED"
	OrderReturned       OrderStatus = "RETURNED"
	OrderRefunded       OrderStatus = "REFUNDED"
)

// orderTransitions is the directed transition table for order statuses.
// No self-loops, no skipping. CANCELLED and REFUNDED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderConfirmed, OrderCancelled},
	OrderConfirmed:      {OrderProcessing, OrderCancelled},
	OrderProcessing:     {OrderShipped, OrderCancelled},
	OrderShipped:        {OrderOutForDelivery, OrderReturned},
	OrderOutForDelivery: {OrderDelivered, OrderReturned},
	OrderDelivered:      {OrderReturned},
	OrderCancelled:      {},
	OrderReturned:       {OrderRefunded},
	OrderRefunded:       {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether the status may move to next per the table.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout time. The money
// fields are computed once at creation and never recomputed.
type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	UserID            string          `json:"userId"`
	Status            OrderStatus     `json:"status"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Tax               decimal.Decimal `json:"tax"`
	ShippingCost      decimal.Decimal `json:"shippingCost"`
	Discount          decimal.Decimal `json:"discount"`
	Total             decimal.Decimal `json:"total"`
	ShippingAddressID string          `json:"shippingAddressId"`
	BillingAddressID  string          `json:"billingAddressId"`
	Notes             string          `json:"notes,omitempty"`
	Items             []OrderItem     `json:"items,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// OrderItem freezes the product price at purchase time, decoupled from
// later catalog price changes.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"-"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// OrderPage is the pagination envelope for user order listings.
type OrderPage struct {
	Data       []Order `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
