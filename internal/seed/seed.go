package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type categorySeed struct {
	Name        string
	Slug        string
	Description string
}

type productSeed struct {
	Name         string
	Slug         string
	SKU          string
	Description  string
	Price        string
	Stock        int
	IsFeatured   bool
	CategorySlug string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []categorySeed{
		{Name: "Electronics", Slug: "electronics", Description: "Phones, laptops and accessories"},
		{Name: "Fashion", Slug: "fashion", Description: "Clothing and footwear"},
		{Name: "Home & Kitchen", Slug: "home-kitchen", Description: "Appliances and homeware"},
		{Name: "Books", Slug: "books", Description: "Fiction and non-fiction"},
		{Name: "Sports", Slug: "sports", Description: "Sporting goods and fitness gear"},
	}

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := upsertCategory(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = id
	}

	products := []productSeed{
		{
			Name:         "Wireless Earbuds",
			Slug:         "wireless-earbuds",
			SKU:          "SKU-ELEC-EARBUDS",
			Description:  "Bluetooth earbuds with charging case",
			Price:        "1999.00",
			Stock:        50,
			IsFeatured:   true,
			CategorySlug: "electronics",
		},
		{
			Name:         "Cotton T-Shirt",
			Slug:         "cotton-t-shirt",
			SKU:          "SKU-FASH-TSHIRT",
			Description:  "Soft cotton tee, regular fit",
			Price:        "399.00",
			Stock:        200,
			CategorySlug: "fashion",
		},
		{
			Name:         "Steel Water Bottle",
			Slug:         "steel-water-bottle",
			SKU:          "SKU-HOME-BOTTLE",
			Description:  "Insulated 1L stainless bottle",
			Price:        "649.00",
			Stock:        120,
			CategorySlug: "home-kitchen",
		},
		{
			Name:         "Yoga Mat",
			Slug:         "yoga-mat",
			SKU:          "SKU-SPRT-YOGAMAT",
			Description:  "Non-slip 6mm yoga mat",
			Price:        "899.00",
			Stock:        80,
			CategorySlug: "sports",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.CategorySlug], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@shopkart.local", "Admin1234"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (string, error) {
	const q = `
INSERT INTO categories (name, slug, description)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, c.Name, c.Slug, c.Description).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, sku, description, price, stock_quantity, is_featured, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    stock_quantity = EXCLUDED.stock_quantity,
    is_featured = EXCLUDED.is_featured,
    category_id = EXCLUDED.category_id,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.Stock, p.IsFeatured, categoryID)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, first_name, role)
VALUES ($1, $2, 'Admin', 'ADMIN')
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}
