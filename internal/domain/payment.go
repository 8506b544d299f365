package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	MethodCard       PaymentMethod = "CARD"
	MethodUPI        PaymentMethod = "UPI"
	MethodNetbanking PaymentMethod = "NETBANKING"
	MethodWallet     PaymentMethod = "WALLET"
	MethodCOD        PaymentMethod = "COD"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodNetbanking, MethodWallet, MethodCOD:
		return true
	}
	return false
}

// Payment is one-to-one with an order. GatewayRef holds the external
// payment-intent id for non-COD methods; COD payments never leave process.
type Payment struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     PaymentStatus   `json:"status"`
	Method     PaymentMethod   `json:"method"`
	GatewayRef string          `json:"gatewayRef,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
