package category

import (
	"context"

	"shopkart/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	SoftDelete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	// CountLiveProducts counts non-deleted products referencing the category.
	CountLiveProducts(ctx context.Context, id string) (int, error)
	// CountLiveChildren counts non-deleted categories whose parent is id.
	CountLiveChildren(ctx context.Context, id string) (int, error)
}
