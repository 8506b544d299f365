package payment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
)

const paymentColumns = `id::text, order_id::text, amount, currency, status, method, COALESCE(gateway_ref, ''), created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	const q = `
INSERT INTO payments (order_id, amount, currency, status, method, gateway_ref)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING ` + paymentColumns
	created, err := scanPayment(r.pool.QueryRow(ctx, q, p.OrderID, p.Amount, p.Currency, p.Status, p.Method, p.GatewayRef))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND deleted_at IS NULL`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 AND deleted_at IS NULL`
	return r.get(ctx, q, orderID)
}

func (r *postgresRepo) GetByGatewayRef(ctx context.Context, ref string) (*domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_ref = $1 AND deleted_at IS NULL`
	return r.get(ctx, q, ref)
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	q := `
UPDATE payments
SET status = $2, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + paymentColumns
	return r.get(ctx, q, id, status)
}

func (r *postgresRepo) SetStatusAndRef(ctx context.Context, id string, status domain.PaymentStatus, gatewayRef string) (*domain.Payment, error) {
	q := `
UPDATE payments
SET status = $2, gateway_ref = NULLIF($3, ''), updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + paymentColumns
	return r.get(ctx, q, id, status, gatewayRef)
}

func (r *postgresRepo) get(ctx context.Context, q string, args ...interface{}) (*domain.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.Status, &p.Method, &p.GatewayRef, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
