package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id::text, user_id::text, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, created_at
FROM carts
WHERE user_id = $1
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadLines(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetLine(ctx context.Context, cartID, productID string) (*domain.CartItem, error) {
	const q = `
SELECT id::text, cart_id::text, product_id::text, quantity, created_at
FROM cart_items
WHERE cart_id = $1 AND product_id = $2 AND deleted_at IS NULL
`
	var item domain.CartItem
	err := r.pool.QueryRow(ctx, q, cartID, productID).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) InsertLine(ctx context.Context, cartID, productID string, quantity int) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
`, cartID, productID, quantity)
	return err
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, lineID string, quantity int) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET quantity = $2
WHERE id = $1 AND deleted_at IS NULL
`, lineID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SoftDeleteLine(ctx context.Context, lineID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET deleted_at = now()
WHERE id = $1 AND deleted_at IS NULL
`, lineID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SoftDeleteAllLines(ctx context.Context, cartID string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE cart_items
SET deleted_at = now()
WHERE cart_id = $1 AND deleted_at IS NULL
`, cartID)
	return err
}

func (r *postgresRepo) loadLines(ctx context.Context, cart *domain.Cart) error {
	const q = `
SELECT ci.id::text, ci.cart_id::text, ci.product_id::text, ci.quantity, ci.created_at,
       p.id::text, p.name, p.slug, p.sku, COALESCE(p.description, ''), p.price, p.compare_at_price,
       p.stock_quantity, p.low_stock_threshold, p.is_active, p.is_featured, p.category_id::text, p.images, p.created_at, p.updated_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1 AND ci.deleted_at IS NULL
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.CompareAtPrice,
			&p.StockQuantity, &p.LowStockThreshold, &p.IsActive, &p.IsFeatured, &p.CategoryID,
			&p.Images, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return err
		}
		item.Product = &p
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}
