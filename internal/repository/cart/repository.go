package cart

import (
	"context"

	"shopkart/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the user's cart with live lines, creating an
	// empty cart on first access.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// GetByUser returns the user's cart or domain.ErrNotFound; it never creates.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// GetLine returns the live line for (cart, product) or domain.ErrNotFound.
	GetLine(ctx context.Context, cartID, productID string) (*domain.CartItem, error)
	InsertLine(ctx context.Context, cartID, productID string, quantity int) error
	SetLineQuantity(ctx context.Context, lineID string, quantity int) error
	SoftDeleteLine(ctx context.Context, lineID string) error
	SoftDeleteAllLines(ctx context.Context, cartID string) error
}
