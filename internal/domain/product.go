package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	SKU               string           `json:"sku"`
	Description       string           `json:"description,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compareAtPrice,omitempty"`
	StockQuantity     int              `json:"stockQuantity"`
	LowStockThreshold int              `json:"lowStockThreshold"`
	IsActive          bool             `json:"isActive"`
	IsFeatured        bool             `json:"isFeatured"`
	CategoryID        string           `json:"categoryId"`
	Images            []string         `json:"images"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// ProductPage is the pagination envelope for catalog listings.
type ProductPage struct {
	Data       []Product `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parentId,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}
