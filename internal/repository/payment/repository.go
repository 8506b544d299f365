package payment

import (
	"context"

	"shopkart/internal/domain"
)

type Repository interface {
	// Create inserts a payment row. Returns domain.ErrAlreadyExists when the
	// order already has a live payment.
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error)
	GetByGatewayRef(ctx context.Context, ref string) (*domain.Payment, error)
	SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
	// SetStatusAndRef updates the status and records the external reference
	// reported by the gateway on confirmation.
	SetStatusAndRef(ctx context.Context, id string, status domain.PaymentStatus, gatewayRef string) (*domain.Payment, error)
}
