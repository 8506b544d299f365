package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shopkart/internal/domain"
	orderrepo "shopkart/internal/repository/order"
	paymentrepo "shopkart/internal/repository/payment"
)

const currency = "INR"

// Service attaches payments to orders and drives order confirmation. The
// gateway is mocked: external references are generated locally and the
// webhook accepts gateway-shaped events.
type Service struct {
	payments paymentRepo
	orders   orderRepo
}

type paymentRepo interface {
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error)
	GetByGatewayRef(ctx context.Context, ref string) (*domain.Payment, error)
	SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
	SetStatusAndRef(ctx context.Context, id string, status domain.PaymentStatus, gatewayRef string) (*domain.Payment, error)
}

type orderRepo interface {
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

func New(payments paymentrepo.Repository, orders orderrepo.Repository) *Service {
	return &Service{payments: payments, orders: orders}
}

// Intent is the created payment plus the client secret handed to the
// storefront for non-COD methods.
type Intent struct {
	domain.Payment
	ClientSecret string `json:"clientSecret,omitempty"`
}

// WebhookEvent mirrors the gateway callback shape.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// CreateIntent creates the payment for a PENDING order without an existing
// payment. COD short-circuits: the payment succeeds immediately and the
// order is confirmed with no gateway round-trip.
func (s *Service) CreateIntent(ctx context.Context, userID, orderID string, method domain.PaymentMethod) (*Intent, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q: %w", method, domain.ErrInvalidState)
	}

	order, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.payments.GetByOrder(ctx, orderID); err == nil {
		return nil, fmt.Errorf("payment already exists for this order: %w", domain.ErrInvalidState)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if order.Status != domain.OrderPending {
		return nil, fmt.Errorf("order is not in pending status: %w", domain.ErrInvalidState)
	}

	p := domain.Payment{
		OrderID:  orderID,
		Amount:   order.Total,
		Currency: currency,
		Method:   method,
		Status:   domain.PaymentPending,
	}
	if method == domain.MethodCOD {
		p.Status = domain.PaymentSucceeded
	} else {
		p.GatewayRef = newGatewayRef()
	}

	created, err := s.payments.Create(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("payment already exists for this order: %w", domain.ErrInvalidState)
		}
		return nil, err
	}

	if method == domain.MethodCOD {
		if _, err := s.orders.SetStatus(ctx, orderID, domain.OrderConfirmed); err != nil {
			return nil, err
		}
	}

	intent := &Intent{Payment: *created}
	if created.GatewayRef != "" {
		intent.ClientSecret = created.GatewayRef + "_secret_test"
	}
	return intent, nil
}

// Confirm marks a pending payment SUCCEEDED and confirms its order. A
// payment cannot be confirmed twice.
func (s *Service) Confirm(ctx context.Context, paymentID, gatewayRef string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.PaymentSucceeded {
		return nil, fmt.Errorf("payment already confirmed: %w", domain.ErrInvalidState)
	}

	updated, err := s.payments.SetStatusAndRef(ctx, paymentID, domain.PaymentSucceeded, gatewayRef)
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.SetStatus(ctx, p.OrderID, domain.OrderConfirmed); err != nil {
		return nil, err
	}
	return updated, nil
}

// HandleWebhook maps a gateway event to local payment and order status.
// Unrecognized event types are acknowledged as a no-op.
func (s *Service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	var status domain.PaymentStatus
	var orderStatus domain.OrderStatus

	switch event.Type {
	case "payment_intent.succeeded":
		status, orderStatus = domain.PaymentSucceeded, domain.OrderConfirmed
	case "payment_intent.payment_failed":
		status = domain.PaymentFailed
	case "payment_intent.canceled":
		status, orderStatus = domain.PaymentCancelled, domain.OrderCancelled
	default:
		return nil
	}

	p, err := s.payments.GetByGatewayRef(ctx, event.Data.Object.ID)
	if err != nil {
		return err
	}

	if _, err := s.payments.SetStatus(ctx, p.ID, status); err != nil {
		return err
	}
	if orderStatus != "" {
		if _, err := s.orders.SetStatus(ctx, p.OrderID, orderStatus); err != nil {
			return err
		}
	}
	return nil
}

// Refund marks a SUCCEEDED non-COD payment REFUNDED and forces the order to
// REFUNDED as an administrative override, regardless of the order's current
// status. Cash refunds are handled out of band and rejected here.
func (s *Service) Refund(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentSucceeded {
		return nil, fmt.Errorf("only successful payments can be refunded: %w", domain.ErrInvalidState)
	}
	if p.Method == domain.MethodCOD {
		return nil, fmt.Errorf("COD payments cannot be refunded through this method: %w", domain.ErrInvalidState)
	}

	updated, err := s.payments.SetStatus(ctx, paymentID, domain.PaymentRefunded)
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.SetStatus(ctx, p.OrderID, domain.OrderRefunded); err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID returns a payment only when the caller owns its order.
func (s *Service) GetByID(ctx context.Context, userID, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.GetByID(ctx, userID, p.OrderID); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByOrder returns the payment for one of the caller's orders.
func (s *Service) GetByOrder(ctx context.Context, userID, orderID string) (*domain.Payment, error) {
	if _, err := s.orders.GetByID(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return s.payments.GetByOrder(ctx, orderID)
}

func newGatewayRef() string {
	return "pi_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
