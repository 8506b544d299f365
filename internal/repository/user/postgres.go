package user

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
)

const userColumns = `id::text, email, password_hash, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(phone, ''), role, is_active, created_at, updated_at`

const addressColumns = `id::text, user_id::text, full_name, phone, line1, COALESCE(line2, ''), city, state, postal_code, country, is_default, created_at`

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

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name, phone, role)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6)
RETURNING ` + userColumns
	created, err := scanUser(r.pool.QueryRow(ctx, q, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.getUser(ctx, q, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.getUser(ctx, q, email)
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error) {
	const q = `
UPDATE users
SET first_name = COALESCE($2, first_name),
    last_name = COALESCE($3, last_name),
    phone = COALESCE($4, phone),
    updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + userColumns
	return r.getUser(ctx, q, id, in.FirstName, in.LastName, in.Phone)
}

func (r *postgresRepo) getUser(ctx context.Context, q string, args ...interface{}) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	q := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND deleted_at IS NULL ORDER BY is_default DESC, created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	q := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	a, err := scanAddress(r.pool.QueryRow(ctx, q, addressID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.UserID); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO addresses (user_id, full_name, phone, line1, line2, city, state, postal_code, country, is_default)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
RETURNING ` + addressColumns
	created, err := scanAddress(tx.QueryRow(ctx, q,
		a.UserID, a.FullName, a.Phone, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) UpdateAddress(ctx context.Context, a domain.Address) (*domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if err := clearDefault(ctx, tx, a.UserID); err != nil {
			return nil, err
		}
	}

	const q = `
UPDATE addresses
SET full_name = $3, phone = $4, line1 = $5, line2 = NULLIF($6, ''), city = $7, state = $8,
    postal_code = $9, country = $10, is_default = $11
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + addressColumns
	updated, err := scanAddress(tx.QueryRow(ctx, q,
		a.ID, a.UserID, a.FullName, a.Phone, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) SoftDeleteAddress(ctx context.Context, userID, addressID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE addresses
SET deleted_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
`, addressID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	const q = `
SELECT wi.id::text, wi.user_id::text, wi.product_id::text, wi.created_at,
       p.id::text, p.name, p.slug, p.sku, COALESCE(p.description, ''), p.price, p.compare_at_price,
       p.stock_quantity, p.low_stock_threshold, p.is_active, p.is_featured, p.category_id::text, p.images, p.created_at, p.updated_at
FROM wishlist_items wi
JOIN products p ON p.id = wi.product_id
WHERE wi.user_id = $1 AND wi.deleted_at IS NULL
ORDER BY wi.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		var p domain.Product
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.CompareAtPrice,
			&p.StockQuantity, &p.LowStockThreshold, &p.IsActive, &p.IsFeatured, &p.CategoryID,
			&p.Images, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &p
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) AddWishlistItem(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	const q = `
INSERT INTO wishlist_items (user_id, product_id)
VALUES ($1, $2)
RETURNING id::text, user_id::text, product_id::text, created_at
`
	var item domain.WishlistItem
	if err := r.pool.QueryRow(ctx, q, userID, productID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: add wishlist item user=%s product=%s error=%v", userID, productID, err)
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) SoftDeleteWishlistItem(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE wishlist_items
SET deleted_at = now()
WHERE user_id = $1 AND product_id = $2 AND deleted_at IS NULL
`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func clearDefault(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
UPDATE addresses
SET is_default = false
WHERE user_id = $1 AND is_default AND deleted_at IS NULL
`, userID)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
