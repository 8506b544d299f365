package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
	cartrepo "shopkart/internal/repository/cart"
	productrepo "shopkart/internal/repository/product"
)

// Service maintains the single active cart per user. Cart totals are
// recomputed from live catalog prices on every read.
type Service struct {
	carts    cartRepo
	products productRepo
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetLine(ctx context.Context, cartID, productID string) (*domain.CartItem, error)
	InsertLine(ctx context.Context, cartID, productID string, quantity int) error
	SetLineQuantity(ctx context.Context, lineID string, quantity int) error
	SoftDeleteLine(ctx context.Context, lineID string) error
	SoftDeleteAllLines(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(carts cartrepo.Repository, products productrepo.Repository) *Service {
	return &Service{carts: carts, products: products}
}

// Get returns the user's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withTotals(cart), nil
}

// AddItem upserts a line, merging into an existing live line for the same
// product. Stock is validated against the merged quantity.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidState)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product %s is not available: %w", product.Name, domain.ErrInvalidState)
	}
	if quantity > product.StockQuantity {
		return nil, fmt.Errorf("product %s: %w", product.Name, domain.ErrInsufficientStock)
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	line, err := s.carts.GetLine(ctx, cart.ID, productID)
	switch {
	case err == nil:
		merged := line.Quantity + quantity
		if merged > product.StockQuantity {
			return nil, fmt.Errorf("product %s: %w", product.Name, domain.ErrInsufficientStock)
		}
		if err := s.carts.SetLineQuantity(ctx, line.ID, merged); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		if err := s.carts.InsertLine(ctx, cart.ID, productID, quantity); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.Get(ctx, userID)
}

// UpdateQuantity replaces the quantity of an existing line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidState)
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.carts.GetLine(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.StockQuantity {
		return nil, fmt.Errorf("product %s: %w", product.Name, domain.ErrInsufficientStock)
	}

	if err := s.carts.SetLineQuantity(ctx, line.ID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem soft-deletes a single line.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.carts.GetLine(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SoftDeleteLine(ctx, line.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Clear soft-deletes every line. Clearing an already-empty cart succeeds as
// long as the cart exists.
func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SoftDeleteAllLines(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func withTotals(cart *domain.Cart) *domain.Cart {
	subtotal := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		if item.Product != nil {
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		count += item.Quantity
	}
	cart.Subtotal = subtotal
	cart.ItemCount = count
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return cart
}
