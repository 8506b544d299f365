package product

import (
	"context"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
)

// ListFilter narrows catalog listings. Zero values mean "no filter".
type ListFilter struct {
	CategoryID string
	IsActive   *bool
	IsFeatured *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Page       int
	PageSize   int
}

type Repository interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, f ListFilter) ([]domain.Product, int, error)
	SetStock(ctx context.Context, id string, quantity int) error
	// Upsert inserts the product or, when the SKU already exists, updates it in place.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
