package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopkart/internal/domain"
	"shopkart/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE payments, order_items, orders, cart_items, carts, products, categories, addresses, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func seedUserAndProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool) (userID, productID string) {
	t.Helper()
	if err := pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES (gen_random_uuid()::text || '@test.local', 'x') RETURNING id::text`,
	).Scan(&userID); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	var categoryID string
	if err := pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug) VALUES ('Cat', gen_random_uuid()::text) RETURNING id::text`,
	).Scan(&categoryID); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO products (name, slug, sku, price, stock_quantity, category_id) VALUES ('Prod', gen_random_uuid()::text, gen_random_uuid()::text, 100.00, 10, $1) RETURNING id::text`,
		categoryID,
	).Scan(&productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return userID, productID
}

func TestPostgres_GetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	userID, _ := seedUserAndProduct(ctx, t, pool)
	repo := NewPostgres(pool)

	first, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one cart per user, got %s and %s", first.ID, second.ID)
	}
}

func TestPostgres_LineLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	userID, productID := seedUserAndProduct(ctx, t, pool)
	repo := NewPostgres(pool)

	cart, err := repo.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if err := repo.InsertLine(ctx, cart.ID, productID, 2); err != nil {
		t.Fatalf("InsertLine: %v", err)
	}
	line, err := repo.GetLine(ctx, cart.ID, productID)
	if err != nil {
		t.Fatalf("GetLine: %v", err)
	}
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity)
	}

	if err := repo.SetLineQuantity(ctx, line.ID, 5); err != nil {
		t.Fatalf("SetLineQuantity: %v", err)
	}

	loaded, err := repo.GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 5 {
		t.Fatalf("unexpected items %+v", loaded.Items)
	}
	if loaded.Items[0].Product == nil || loaded.Items[0].Product.ID != productID {
		t.Fatalf("expected product joined onto line")
	}

	if err := repo.SoftDeleteLine(ctx, line.ID); err != nil {
		t.Fatalf("SoftDeleteLine: %v", err)
	}
	if _, err := repo.GetLine(ctx, cart.ID, productID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after soft delete, got %v", err)
	}

	// A removed product can be re-added: the partial unique index only
	// covers live lines.
	if err := repo.InsertLine(ctx, cart.ID, productID, 1); err != nil {
		t.Fatalf("re-insert after soft delete: %v", err)
	}
}
