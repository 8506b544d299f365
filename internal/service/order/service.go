package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
	cartrepo "shopkart/internal/repository/cart"
	orderrepo "shopkart/internal/repository/order"
	userrepo "shopkart/internal/repository/user"
)

// Pricing rules applied at checkout. Tax is a flat 18% of the subtotal and
// shipping is free above a 500 subtotal, 50 otherwise.
var (
	taxRate          = decimal.RequireFromString("0.18")
	freeShippingOver = decimal.NewFromInt(500)
	flatShippingCost = decimal.NewFromInt(50)
)

const defaultPageSize = 20

// Service materializes carts into immutable orders and drives the order
// status lifecycle.
type Service struct {
	orders orderRepo
	carts  cartRepo
	users  addressRepo
}

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CheckoutInput) (*domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	GetByNumber(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	GetAny(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type cartRepo interface {
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
}

type addressRepo interface {
	GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error)
}

func New(orders orderrepo.Repository, carts cartrepo.Repository, users userrepo.Repository) *Service {
	return &Service{orders: orders, carts: carts, users: users}
}

// CreateInput carries the checkout request.
type CreateInput struct {
	ShippingAddressID string `json:"shippingAddressId"`
	BillingAddressID  string `json:"billingAddressId,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// Create turns the user's cart into a PENDING order: validates every line
// against the live catalog, freezes prices, decrements stock and clears the
// cart atomically.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Order, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrInvalidState)
	}

	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrNotFound)
		}
		if !item.Product.IsActive {
			return nil, fmt.Errorf("product %s is not available: %w", item.Product.Name, domain.ErrInvalidState)
		}
		if item.Quantity > item.Product.StockQuantity {
			return nil, fmt.Errorf("product %s: %w", item.Product.Name, domain.ErrInsufficientStock)
		}
	}

	if _, err := s.users.GetAddress(ctx, userID, in.ShippingAddressID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("shipping address: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	billingID := in.BillingAddressID
	if billingID == "" {
		billingID = in.ShippingAddressID
	} else if _, err := s.users.GetAddress(ctx, userID, billingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("billing address: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	subtotal := decimal.Zero
	items := make([]orderrepo.CheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, orderrepo.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}

	tax := subtotal.Mul(taxRate)
	shippingCost := flatShippingCost
	if subtotal.GreaterThan(freeShippingOver) {
		shippingCost = decimal.Zero
	}
	total := subtotal.Add(tax).Add(shippingCost)

	checkout := orderrepo.CheckoutInput{
		UserID:            userID,
		CartID:            cart.ID,
		Subtotal:          subtotal,
		Tax:               tax,
		ShippingCost:      shippingCost,
		Discount:          decimal.Zero,
		Total:             total,
		ShippingAddressID: in.ShippingAddressID,
		BillingAddressID:  billingID,
		Notes:             in.Notes,
		Items:             items,
	}

	// The order number carries a random suffix; uniqueness is enforced by
	// the DB constraint, so a collision just gets a fresh number.
	for attempt := 0; attempt < 5; attempt++ {
		checkout.OrderNumber = newOrderNumber()
		created, err := s.orders.CreateFromCart(ctx, checkout)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return created, err
	}
	return nil, errors.New("order number collision")
}

// UpdateStatus moves an order along the transition table. It is not
// user-scoped; the HTTP layer restricts it to admin and vendor roles.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrInvalidTransition)
	}
	o, err := s.orders.GetAny(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(status) {
		return nil, fmt.Errorf("cannot transition from %s to %s: %w", o.Status, status, domain.ErrInvalidTransition)
	}
	return s.orders.SetStatus(ctx, orderID, status)
}

// Cancel is a restricted wrapper over UpdateStatus: a user may cancel their
// own order only while it is PENDING or CONFIRMED.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.OrderPending && o.Status != domain.OrderConfirmed {
		return nil, fmt.Errorf("order cannot be cancelled at this stage: %w", domain.ErrInvalidState)
	}
	return s.UpdateStatus(ctx, orderID, domain.OrderCancelled)
}

// List returns the user's orders newest first, 1-indexed.
func (s *Service) List(ctx context.Context, userID string, page, pageSize int) (*domain.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	orders, total, err := s.orders.List(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return &domain.OrderPage{
		Data:       orders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, userID, orderID)
}

func (s *Service) GetByNumber(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	return s.orders.GetByNumber(ctx, userID, orderNumber)
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
