package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
)

type stubPaymentRepo struct {
	created       *domain.Payment
	createErr     error
	lastCreate    domain.Payment
	payment       *domain.Payment
	getErr        error
	byOrder       *domain.Payment
	byOrderErr    error
	byRef         *domain.Payment
	byRefErr      error
	lastSetStatus domain.PaymentStatus
	lastSetRef    string
}

func (s *stubPaymentRepo) Create(_ context.Context, p domain.Payment) (*domain.Payment, error) {
	s.lastCreate = p
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	out := p
	out.ID = "pay1"
	return &out, nil
}

func (s *stubPaymentRepo) GetByID(_ context.Context, _ string) (*domain.Payment, error) {
	return s.payment, s.getErr
}

func (s *stubPaymentRepo) GetByOrder(_ context.Context, _ string) (*domain.Payment, error) {
	return s.byOrder, s.byOrderErr
}

func (s *stubPaymentRepo) GetByGatewayRef(_ context.Context, _ string) (*domain.Payment, error) {
	return s.byRef, s.byRefErr
}

func (s *stubPaymentRepo) SetStatus(_ context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	s.lastSetStatus = status
	return &domain.Payment{ID: id, Status: status}, nil
}

func (s *stubPaymentRepo) SetStatusAndRef(_ context.Context, id string, status domain.PaymentStatus, ref string) (*domain.Payment, error) {
	s.lastSetStatus = status
	s.lastSetRef = ref
	return &domain.Payment{ID: id, Status: status, GatewayRef: ref}, nil
}

type stubOrderRepo struct {
	order         *domain.Order
	getErr        error
	lastSetID     string
	lastSetStatus domain.OrderStatus
}

func (s *stubOrderRepo) GetByID(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderRepo) SetStatus(_ context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	s.lastSetID = orderID
	s.lastSetStatus = status
	return &domain.Order{ID: orderID, Status: status}, nil
}

func pendingOrder(total string) *domain.Order {
	return &domain.Order{ID: "o1", Status: domain.OrderPending, Total: decimal.RequireFromString(total)}
}

func TestCreateIntentUnknownMethod(t *testing.T) {
	svc := &Service{payments: &stubPaymentRepo{}, orders: &stubOrderRepo{order: pendingOrder("100")}}
	_, err := svc.CreateIntent(context.Background(), "u1", "o1", "BARTER")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCreateIntentOrderNotPending(t *testing.T) {
	order := &domain.Order{ID: "o1", Status: domain.OrderConfirmed, Total: decimal.NewFromInt(100)}
	payments := &stubPaymentRepo{byOrderErr: domain.ErrNotFound}
	svc := &Service{payments: payments, orders: &stubOrderRepo{order: order}}
	_, err := svc.CreateIntent(context.Background(), "u1", "o1", domain.MethodCard)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCreateIntentDuplicatePayment(t *testing.T) {
	payments := &stubPaymentRepo{byOrder: &domain.Payment{ID: "pay0"}}
	svc := &Service{payments: payments, orders: &stubOrderRepo{order: pendingOrder("100")}}
	_, err := svc.CreateIntent(context.Background(), "u1", "o1", domain.MethodCard)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for duplicate, got %v", err)
	}
}

func TestCreateIntentCardGetsGatewayRef(t *testing.T) {
	payments := &stubPaymentRepo{byOrderErr: domain.ErrNotFound}
	orders := &stubOrderRepo{order: pendingOrder("522")}
	svc := &Service{payments: payments, orders: orders}
	intent, err := svc.CreateIntent(context.Background(), "u1", "o1", domain.MethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Status != domain.PaymentPending {
		t.Fatalf("expected PENDING, got %s", intent.Status)
	}
	if !strings.HasPrefix(intent.GatewayRef, "pi_test_") {
		t.Fatalf("unexpected gateway ref %q", intent.GatewayRef)
	}
	if intent.ClientSecret != intent.GatewayRef+"_secret_test" {
		t.Fatalf("unexpected client secret %q", intent.ClientSecret)
	}
	if orders.lastSetStatus != "" {
		t.Fatalf("card intent must not touch order status, got %s", orders.lastSetStatus)
	}
	if !payments.lastCreate.Amount.Equal(decimal.RequireFromString("522")) {
		t.Fatalf("amount must come from the order total, got %s", payments.lastCreate.Amount)
	}
}

func TestCreateIntentCODConfirmsOrder(t *testing.T) {
	payments := &stubPaymentRepo{byOrderErr: domain.ErrNotFound}
	orders := &stubOrderRepo{order: pendingOrder("100")}
	svc := &Service{payments: payments, orders: orders}
	intent, err := svc.CreateIntent(context.Background(), "u1", "o1", domain.MethodCOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Status != domain.PaymentSucceeded {
		t.Fatalf("expected SUCCEEDED for COD, got %s", intent.Status)
	}
	if intent.GatewayRef != "" || intent.ClientSecret != "" {
		t.Fatalf("COD must not carry gateway fields: ref=%q secret=%q", intent.GatewayRef, intent.ClientSecret)
	}
	if orders.lastSetID != "o1" || orders.lastSetStatus != domain.OrderConfirmed {
		t.Fatalf("expected order o1 confirmed, got %s -> %s", orders.lastSetID, orders.lastSetStatus)
	}
}

func TestConfirmAlreadySucceeded(t *testing.T) {
	payments := &stubPaymentRepo{payment: &domain.Payment{ID: "pay1", Status: domain.PaymentSucceeded}}
	svc := &Service{payments: payments, orders: &stubOrderRepo{}}
	_, err := svc.Confirm(context.Background(), "pay1", "pi_x")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for double confirm, got %v", err)
	}
}

func TestConfirmHappyPath(t *testing.T) {
	payments := &stubPaymentRepo{payment: &domain.Payment{ID: "pay1", OrderID: "o1", Status: domain.PaymentPending}}
	orders := &stubOrderRepo{}
	svc := &Service{payments: payments, orders: orders}
	p, err := svc.Confirm(context.Background(), "pay1", "pi_live")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.PaymentSucceeded || payments.lastSetRef != "pi_live" {
		t.Fatalf("expected SUCCEEDED with ref pi_live, got %s %q", p.Status, payments.lastSetRef)
	}
	if orders.lastSetStatus != domain.OrderConfirmed {
		t.Fatalf("expected order confirmed, got %s", orders.lastSetStatus)
	}
}

func TestHandleWebhookSucceeded(t *testing.T) {
	payments := &stubPaymentRepo{byRef: &domain.Payment{ID: "pay1", OrderID: "o1"}}
	orders := &stubOrderRepo{}
	svc := &Service{payments: payments, orders: orders}

	var event WebhookEvent
	event.Type = "payment_intent.succeeded"
	event.Data.Object.ID = "pi_x"

	if err := svc.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payments.lastSetStatus != domain.PaymentSucceeded {
		t.Fatalf("expected payment SUCCEEDED, got %s", payments.lastSetStatus)
	}
	if orders.lastSetStatus != domain.OrderConfirmed {
		t.Fatalf("expected order CONFIRMED, got %s", orders.lastSetStatus)
	}
}

func TestHandleWebhookFailedLeavesOrder(t *testing.T) {
	payments := &stubPaymentRepo{byRef: &domain.Payment{ID: "pay1", OrderID: "o1"}}
	orders := &stubOrderRepo{}
	svc := &Service{payments: payments, orders: orders}

	var event WebhookEvent
	event.Type = "payment_intent.payment_failed"
	event.Data.Object.ID = "pi_x"

	if err := svc.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payments.lastSetStatus != domain.PaymentFailed {
		t.Fatalf("expected payment FAILED, got %s", payments.lastSetStatus)
	}
	if orders.lastSetStatus != "" {
		t.Fatalf("failed payment must not touch order, got %s", orders.lastSetStatus)
	}
}

func TestHandleWebhookUnknownTypeIsNoop(t *testing.T) {
	payments := &stubPaymentRepo{byRefErr: errors.New("must not be called")}
	svc := &Service{payments: payments, orders: &stubOrderRepo{}}

	var event WebhookEvent
	event.Type = "charge.disputed"

	if err := svc.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestGetByIDRequiresOrderOwnership(t *testing.T) {
	payments := &stubPaymentRepo{payment: &domain.Payment{ID: "pay1", OrderID: "o1"}}
	svc := &Service{payments: payments, orders: &stubOrderRepo{getErr: domain.ErrNotFound}}
	_, err := svc.GetByID(context.Background(), "stranger", "pay1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for non-owner, got %v", err)
	}
}

func TestRefundRequiresSuccess(t *testing.T) {
	payments := &stubPaymentRepo{payment: &domain.Payment{ID: "pay1", Status: domain.PaymentPending, Method: domain.MethodCard}}
	svc := &Service{payments: payments, orders: &stubOrderRepo{}}
	_, err := svc.Refund(context.Background(), "pay1")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestRefundRejectsCOD(t *testing.T) {
	payments := &stubPaymentRepo{payment: &domain.Payment{ID: "pay1", Status: domain.PaymentSucceeded, Method: domain.MethodCOD}}
	svc := &Service{payments: payments, orders: &stubOrderRepo{}}
	_, err := svc.Refund(context.Background(), "pay1")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for COD refund, got %v", err)
	}
}

func TestRefundForcesOrderRefunded(t *testing.T) {
	payments := &stubPaymentRepo{payment: &domain.Payment{ID: "pay1", OrderID: "o1", Status: domain.PaymentSucceeded, Method: domain.MethodUPI}}
	orders := &stubOrderRepo{}
	svc := &Service{payments: payments, orders: orders}
	p, err := svc.Refund(context.Background(), "pay1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.PaymentRefunded {
		t.Fatalf("expected REFUNDED, got %s", p.Status)
	}
	if orders.lastSetID != "o1" || orders.lastSetStatus != domain.OrderRefunded {
		t.Fatalf("expected order o1 forced to REFUNDED, got %s -> %s", orders.lastSetID, orders.lastSetStatus)
	}
}
