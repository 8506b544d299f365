package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryReader interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Rows reference their category by slug; the category must already exist.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryReader

	// categoryIDs caches slug lookups so repeated rows hit the DB once.
	categoryIDs map[string]string
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryReader) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		categoryIDs: make(map[string]string),
	}
}

type csvRow struct {
	Name           string
	Slug           string
	SKU            string
	Desc           string
	Price          string
	CompareAtPrice string
	Stock          string
	LowStock       string
	IsActive       string
	IsFeatured     string
	CategorySlug   string
	Images         string
}

// Run parses CSV rows and upserts one product per row. It stops at the
// first bad row so a partial import is easy to spot and rerun.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row.SKU == "" && row.Name == "" {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row csvRow) error {
	if row.SKU == "" || row.Name == "" || row.Slug == "" || row.Price == "" || row.CategorySlug == "" {
		return fmt.Errorf("invalid product row (missing required fields) for sku %q", row.SKU)
	}

	price, err := decimal.NewFromString(row.Price)
	if err != nil || !price.IsPositive() {
		return fmt.Errorf("invalid price for sku %q: %s", row.SKU, row.Price)
	}

	var compareAt *decimal.Decimal
	if row.CompareAtPrice != "" {
		v, err := decimal.NewFromString(row.CompareAtPrice)
		if err != nil {
			return fmt.Errorf("invalid compare_at_price for sku %q: %s", row.SKU, row.CompareAtPrice)
		}
		compareAt = &v
	}

	categoryID, err := i.categoryID(ctx, row.CategorySlug)
	if err != nil {
		return fmt.Errorf("resolve category %q for sku %q: %w", row.CategorySlug, row.SKU, err)
	}

	stock, _ := strconv.Atoi(row.Stock)
	lowStock, _ := strconv.Atoi(row.LowStock)
	if lowStock == 0 {
		lowStock = 5
	}

	p := domain.Product{
		Name:              row.Name,
		Slug:              row.Slug,
		SKU:               row.SKU,
		Description:       row.Desc,
		Price:             price,
		CompareAtPrice:    compareAt,
		StockQuantity:     stock,
		LowStockThreshold: lowStock,
		IsActive:          row.IsActive != "false",
		IsFeatured:        row.IsFeatured == "true",
		CategoryID:        categoryID,
		Images:            splitImages(row.Images),
	}

	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.SKU, err)
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, slug string) (string, error) {
	if id, ok := i.categoryIDs[slug]; ok {
		return id, nil
	}
	category, err := i.categories.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	i.categoryIDs[slug] = category.ID
	return category.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) csvRow {
	return csvRow{
		Name:           pick(record, index, "name"),
		Slug:           pick(record, index, "slug"),
		SKU:            pick(record, index, "sku"),
		Desc:           pick(record, index, "description"),
		Price:          pick(record, index, "price"),
		CompareAtPrice: pick(record, index, "compare_at_price"),
		Stock:          pick(record, index, "stock_quantity"),
		LowStock:       pick(record, index, "low_stock_threshold"),
		IsActive:       pick(record, index, "is_active"),
		IsFeatured:     pick(record, index, "is_featured"),
		CategorySlug:   pick(record, index, "category_slug"),
		Images:         pick(record, index, "images"),
	}
}

func splitImages(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
