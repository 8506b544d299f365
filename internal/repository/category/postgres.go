package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
)

const categoryColumns = `id::text, name, slug, COALESCE(description, ''), parent_id::text, is_active, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (name, slug, description, parent_id, is_active)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
RETURNING ` + categoryColumns
	created, err := scanCategory(r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.Description, c.ParentID, c.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories
SET name = $2, slug = $3, description = NULLIF($4, ''), parent_id = $5, is_active = $6
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + categoryColumns
	updated, err := scanCategory(r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Slug, c.Description, c.ParentID, c.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE categories
SET deleted_at = now()
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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND deleted_at IS NULL`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1 AND deleted_at IS NULL`
	return r.get(ctx, q, slug)
}

func (r *postgresRepo) get(ctx context.Context, q string, arg interface{}) (*domain.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE deleted_at IS NULL ORDER BY parent_id NULLS FIRST, name ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) CountLiveProducts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1 AND deleted_at IS NULL`, id).Scan(&n)
	return n, err
}

func (r *postgresRepo) CountLiveChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1 AND deleted_at IS NULL`, id).Scan(&n)
	return n, err
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
