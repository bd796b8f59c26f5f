package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			unit VARCHAR(50) NOT NULL DEFAULT '',
			price DECIMAL(12, 2) NOT NULL,
			is_variable BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS product_variations (
			id VARCHAR(50) PRIMARY KEY,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			sku VARCHAR(100) NOT NULL,
			price DECIMAL(12, 2) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS companies (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			nit VARCHAR(50) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS addresses (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			street VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL,
			state VARCHAR(100) NOT NULL,
			postal_code VARCHAR(20) NOT NULL,
			country VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS discounts (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			discount_type VARCHAR(20) NOT NULL,
			discount_value DECIMAL(12, 2) NOT NULL,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			max_uses_total INTEGER NOT NULL DEFAULT 0,
			max_uses_per_user INTEGER NOT NULL DEFAULT 0,
			times_used INTEGER NOT NULL DEFAULT 0,
			applicable_to_transport BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS user_discounts (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			discount_id UUID NOT NULL REFERENCES discounts(id) ON DELETE CASCADE,
			times_used INTEGER NOT NULL DEFAULT 0,
			UNIQUE (email, discount_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			custom_order_id VARCHAR(100) NOT NULL UNIQUE,
			firstname VARCHAR(100) NOT NULL DEFAULT '',
			lastname VARCHAR(100) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL,
			document_number VARCHAR(50) NOT NULL DEFAULT '',
			company_id UUID REFERENCES companies(id),
			company_name VARCHAR(255) NOT NULL DEFAULT '',
			address_id UUID NOT NULL REFERENCES addresses(id),
			delivery_date VARCHAR(10) NOT NULL,
			delivery_time VARCHAR(5) NOT NULL,
			subtotal DECIMAL(12, 2) NOT NULL,
			transport_cost DECIMAL(12, 2) NOT NULL,
			discount_id UUID REFERENCES discounts(id),
			discount_code VARCHAR(50) NOT NULL DEFAULT '',
			discount_value DECIMAL(12, 2) NOT NULL DEFAULT 0,
			discount_on_transport DECIMAL(12, 2) NOT NULL DEFAULT 0,
			total DECIMAL(12, 2) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			shipping_status VARCHAR(30) NOT NULL,
			order_status VARCHAR(30) NOT NULL,
			is_temporary BOOLEAN NOT NULL DEFAULT TRUE,
			payment_method VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id),
			variation_id VARCHAR(50) REFERENCES product_variations(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(12, 2) NOT NULL,
			subtotal DECIMAL(12, 2) NOT NULL,
			tax DECIMAL(12, 2) NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS order_status_changes (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			field VARCHAR(50) NOT NULL,
			previous_value VARCHAR(50) NOT NULL,
			new_value VARCHAR(50) NOT NULL,
			changed_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_status_changes_order_id ON order_status_changes(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_status_changes_changed_at ON order_status_changes(changed_at);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalog inserts test products and variations.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id         string
		name       string
		price      float64
		isVariable bool
	}{
		{"P001", "Café de origen 500g", 25000, false},
		{"P002", "Queso campesino", 0, true},
		{"P003", "Panela pulverizada", 9000, false},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, is_variable) VALUES ($1, $2, $3, $4)",
			p.id, p.name, p.price, p.isVariable,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}

	variations := []struct {
		id        string
		productID string
		sku       string
		price     float64
	}{
		{"V001", "P002", "QUESO-250", 8000},
		{"V002", "P002", "QUESO-500", 15000},
	}

	for _, v := range variations {
		_, err := pool.Exec(ctx,
			"INSERT INTO product_variations (id, product_id, sku, price) VALUES ($1, $2, $3, $4)",
			v.id, v.productID, v.sku, v.price,
		)
		if err != nil {
			t.Fatalf("failed to seed variation %s: %v", v.id, err)
		}
	}
}

// SeedDiscount inserts one active discount and returns its id.
func SeedDiscount(t *testing.T, pool *pgxpool.Pool, code string, discountType string, value decimal.Decimal, maxUsesTotal, maxUsesPerUser int, applicableToTransport bool) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	now := time.Now()

	_, err := pool.Exec(ctx, `
		INSERT INTO discounts (id, code, discount_type, discount_value, start_date, end_date,
			max_uses_total, max_uses_per_user, applicable_to_transport, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active')
	`, id, code, discountType, value, now.AddDate(0, 0, -1), now.AddDate(0, 0, 30),
		maxUsesTotal, maxUsesPerUser, applicableToTransport)
	if err != nil {
		t.Fatalf("failed to seed discount %s: %v", code, err)
	}

	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_status_changes", "order_items", "orders",
		"user_discounts", "discounts", "addresses", "companies",
		"product_variations", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
