package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
)

const orderColumns = `id::text, order_number, user_id::text, status, subtotal, tax, shipping_cost, discount, total, shipping_address_id::text, billing_address_id::text, COALESCE(notes, ''), created_at`

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

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, user_id, status, subtotal, tax, shipping_cost, discount, total, shipping_address_id, billing_address_id, notes)
VALUES ($1, $2, 'PENDING', $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))
RETURNING ` + orderColumns
	var o domain.Order
	if err := tx.QueryRow(ctx, insertOrder,
		in.OrderNumber, in.UserID, in.Subtotal, in.Tax, in.ShippingCost, in.Discount, in.Total,
		in.ShippingAddressID, in.BillingAddressID, in.Notes,
	).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.Tax, &o.ShippingCost,
		&o.Discount, &o.Total, &o.ShippingAddressID, &o.BillingAddressID, &o.Notes, &o.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	// Conditional decrement: zero rows means another checkout claimed the
	// stock first, so the whole transaction aborts with nothing applied.
	const decrementStock = `
UPDATE products
SET stock_quantity = stock_quantity - $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL AND stock_quantity >= $2
`
	for _, item := range in.Items {
		cmd, err := tx.Exec(ctx, decrementStock, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrInsufficientStock)
		}

		var oi domain.OrderItem
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price, total)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, order_id::text, product_id::text, quantity, price, total
`, o.ID, item.ProductID, item.Quantity, item.Price, item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		).Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.Price, &oi.Total); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, oi)
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET deleted_at = now()
WHERE cart_id = $1 AND deleted_at IS NULL
`, in.CartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created order_number=%s user_id=%s total=%s", o.OrderNumber, o.UserID, o.Total)
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return r.fetchOne(ctx, q, orderID, userID)
}

func (r *postgresRepo) GetByNumber(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1 AND user_id = $2 AND deleted_at IS NULL`
	return r.fetchOne(ctx, q, orderNumber, userID)
}

func (r *postgresRepo) GetAny(ctx context.Context, orderID string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND deleted_at IS NULL`
	return r.fetchOne(ctx, q, orderID)
}

func (r *postgresRepo) List(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND deleted_at IS NULL`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, orderID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, args ...interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT id::text, order_id::text, product_id::text, quantity, price, total
FROM order_items
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var oi domain.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.Price, &oi.Total); err != nil {
			return err
		}
		o.Items = append(o.Items, oi)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Subtotal, &o.Tax, &o.ShippingCost,
		&o.Discount, &o.Total, &o.ShippingAddressID, &o.BillingAddressID, &o.Notes, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
