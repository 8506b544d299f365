package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
	categoryrepo "shopkart/internal/repository/category"
	productrepo "shopkart/internal/repository/product"
)

const defaultPageSize = 20

// Service owns product and category CRUD for the catalog.
type Service struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
}

func New(products productrepo.Repository, categories categoryrepo.Repository) *Service {
	return &Service{products: products, categories: categories}
}

// ProductInput carries create/update payloads for products.
type ProductInput struct {
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	SKU               string           `json:"sku"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compareAtPrice"`
	StockQuantity     int              `json:"stockQuantity"`
	LowStockThreshold int              `json:"lowStockThreshold"`
	IsActive          *bool            `json:"isActive"`
	IsFeatured        bool             `json:"isFeatured"`
	CategoryID        string           `json:"categoryId"`
	Images            []string         `json:"images"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name required: %w", domain.ErrInvalidState)
	}
	if strings.TrimSpace(in.Slug) == "" || strings.TrimSpace(in.SKU) == "" {
		return fmt.Errorf("slug and sku required: %w", domain.ErrInvalidState)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("price must be positive: %w", domain.ErrInvalidState)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative: %w", domain.ErrInvalidState)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	threshold := in.LowStockThreshold
	if threshold <= 0 {
		threshold = 5
	}
	return s.products.Create(ctx, domain.Product{
		Name:              in.Name,
		Slug:              in.Slug,
		SKU:               in.SKU,
		Description:       in.Description,
		Price:             in.Price,
		CompareAtPrice:    in.CompareAtPrice,
		StockQuantity:     in.StockQuantity,
		LowStockThreshold: threshold,
		IsActive:          active,
		IsFeatured:        in.IsFeatured,
		CategoryID:        in.CategoryID,
		Images:            in.Images,
	})
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != existing.CategoryID {
		if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("category: %w", domain.ErrNotFound)
			}
			return nil, err
		}
	}

	updated := *existing
	updated.Name = in.Name
	updated.Slug = in.Slug
	updated.Description = in.Description
	updated.Price = in.Price
	updated.CompareAtPrice = in.CompareAtPrice
	updated.StockQuantity = in.StockQuantity
	if in.LowStockThreshold > 0 {
		updated.LowStockThreshold = in.LowStockThreshold
	}
	if in.IsActive != nil {
		updated.IsActive = *in.IsActive
	}
	updated.IsFeatured = in.IsFeatured
	updated.CategoryID = in.CategoryID
	if in.Images != nil {
		updated.Images = in.Images
	}
	return s.products.Update(ctx, updated)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.SoftDelete(ctx, id)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *Service) SetProductStock(ctx context.Context, id string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("stock quantity cannot be negative: %w", domain.ErrInvalidState)
	}
	return s.products.SetStock(ctx, id, quantity)
}

func (s *Service) ListProducts(ctx context.Context, f productrepo.ListFilter) (*domain.ProductPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return &domain.ProductPage{
		Data:       products,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: (total + f.PageSize - 1) / f.PageSize,
	}, nil
}

// CategoryInput carries create/update payloads for categories.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId"`
	IsActive    *bool   `json:"isActive"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return nil, fmt.Errorf("name and slug required: %w", domain.ErrInvalidState)
	}
	if in.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, *in.ParentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("parent category: %w", domain.ErrNotFound)
			}
			return nil, err
		}
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.categories.Create(ctx, domain.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		IsActive:    active,
	})
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := s.checkAncestry(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
	}

	updated := *existing
	if strings.TrimSpace(in.Name) != "" {
		updated.Name = in.Name
	}
	if strings.TrimSpace(in.Slug) != "" {
		updated.Slug = in.Slug
	}
	if in.Description != "" {
		updated.Description = in.Description
	}
	updated.ParentID = in.ParentID
	if in.IsActive != nil {
		updated.IsActive = *in.IsActive
	}
	return s.categories.Update(ctx, updated)
}

// DeleteCategory soft-deletes a category with no live products and no live
// children.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	products, err := s.categories.CountLiveProducts(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return fmt.Errorf("cannot delete category with existing products: %w", domain.ErrInvalidState)
	}
	children, err := s.categories.CountLiveChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("cannot delete category with subcategories: %w", domain.ErrInvalidState)
	}
	return s.categories.SoftDelete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categories.GetBySlug(ctx, slug)
}

// checkAncestry rejects parent assignments that would make the category its
// own ancestor.
func (s *Service) checkAncestry(ctx context.Context, id, parentID string) error {
	for current := parentID; current != ""; {
		if current == id {
			return fmt.Errorf("category cannot be its own ancestor: %w", domain.ErrInvalidState)
		}
		parent, err := s.categories.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("parent category: %w", domain.ErrNotFound)
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return nil
}
