package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
)

const productColumns = `id::text, name, slug, sku, COALESCE(description, ''), price, compare_at_price, stock_quantity, low_stock_threshold, is_active, is_featured, category_id::text, images, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, sku, description, price, compare_at_price, stock_quantity, low_stock_threshold, is_active, is_featured, category_id, images)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.SKU, p.Description, p.Price, p.CompareAtPrice,
		p.StockQuantity, p.LowStockThreshold, p.IsActive, p.IsFeatured, p.CategoryID, imagesOrEmpty(p.Images),
	)
	created, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: create sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s sku=%s", created.ID, created.SKU)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2, slug = $3, description = NULLIF($4, ''), price = $5, compare_at_price = $6,
    stock_quantity = $7, low_stock_threshold = $8, is_active = $9, is_featured = $10,
    category_id = $11, images = $12, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice,
		p.StockQuantity, p.LowStockThreshold, p.IsActive, p.IsFeatured, p.CategoryID, imagesOrEmpty(p.Images),
	)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, sku, description, price, compare_at_price, stock_quantity, low_stock_threshold, is_active, is_featured, category_id, images)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name, slug = EXCLUDED.slug, description = EXCLUDED.description,
    price = EXCLUDED.price, compare_at_price = EXCLUDED.compare_at_price,
    stock_quantity = EXCLUDED.stock_quantity, low_stock_threshold = EXCLUDED.low_stock_threshold,
    is_active = EXCLUDED.is_active, is_featured = EXCLUDED.is_featured,
    category_id = EXCLUDED.category_id, images = EXCLUDED.images,
    deleted_at = NULL, updated_at = now()
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.SKU, p.Description, p.Price, p.CompareAtPrice,
		p.StockQuantity, p.LowStockThreshold, p.IsActive, p.IsFeatured, p.CategoryID, imagesOrEmpty(p.Images),
	)
	saved, err := scanProduct(row)
	if err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", p.SKU, err)
		return nil, err
	}
	return saved, nil
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET deleted_at = now(), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE slug = $1 AND deleted_at IS NULL`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.CategoryID != "" {
		add("category_id = $%d", f.CategoryID)
	}
	if f.IsActive != nil {
		add("is_active = $%d", *f.IsActive)
	}
	if f.IsFeatured != nil {
		add("is_featured = $%d", *f.IsFeatured)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR sku ILIKE $%d)", n, n, n))
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+clause, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)
	q := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		productColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) SetStock(ctx context.Context, id string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET stock_quantity = $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
`, id, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.CompareAtPrice,
		&p.StockQuantity, &p.LowStockThreshold, &p.IsActive, &p.IsFeatured, &p.CategoryID,
		&p.Images, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
