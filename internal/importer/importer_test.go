package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
)

func decimalFromTest(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", v, err)
	}
	return d
}

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

type stubCategoryRepo struct {
	lookups int
}

func (s *stubCategoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Category, error) {
	s.lookups++
	if slug == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.Category{ID: "id-" + slug, Slug: slug}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,slug,sku,description,price,compare_at_price,stock_quantity,low_stock_threshold,is_active,is_featured,category_slug,images
Wireless Earbuds,wireless-earbuds,SKU-1,Bluetooth earbuds,1999.00,2499.00,50,10,true,true,electronics,https://example.com/a.jpg|https://example.com/b.jpg
Cotton T-Shirt,cotton-t-shirt,SKU-2,Soft tee,399.00,,200,,,false,fashion,
Phone Case,phone-case,SKU-3,Slim case,299.00,,80,,true,false,electronics,`

	repo := &stubProductRepo{}
	categories := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, categories)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	first := repo.items[0]
	if first.SKU != "SKU-1" || first.Slug != "wireless-earbuds" {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if !first.Price.Equal(decimalFromTest(t, "1999.00")) {
		t.Fatalf("unexpected price %s", first.Price)
	}
	if first.CompareAtPrice == nil || !first.CompareAtPrice.Equal(decimalFromTest(t, "2499.00")) {
		t.Fatalf("expected compare-at price preserved")
	}
	if len(first.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(first.Images))
	}
	if first.CategoryID != "id-electronics" {
		t.Fatalf("expected category resolved by slug, got %q", first.CategoryID)
	}

	// Blank is_active defaults to active; only the literal "false" disables.
	second := repo.items[1]
	if !second.IsActive {
		t.Fatalf("expected second product active by default")
	}
	if second.LowStockThreshold != 5 {
		t.Fatalf("expected default threshold 5, got %d", second.LowStockThreshold)
	}

	// Two distinct category slugs, three rows: cache should dedupe lookups.
	if categories.lookups != 2 {
		t.Fatalf("expected 2 category lookups, got %d", categories.lookups)
	}
}

func TestCSVImporter_MissingCategory(t *testing.T) {
	csvData := `name,slug,sku,price,category_slug
Phone Case,phone-case,SKU-3,299.00,missing`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestCSVImporter_BadPrice(t *testing.T) {
	csvData := `name,slug,sku,price,category_slug
Phone Case,phone-case,SKU-3,free,electronics`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for bad price")
	}
}
