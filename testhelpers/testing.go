package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"shopdesk/internal/models"
	"shopdesk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const postgresImage = "postgres:16-alpine"

// TestDB holds a migrated database for integration tests.
type TestDB struct {
	Pool *pgxpool.Pool
	DSN  string
}

// SetupTestDB connects to TEST_DATABASE_URL when set, otherwise starts a throwaway
// postgres container. The schema is migrated and everything is torn down with t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		container, err := tcpostgres.Run(ctx, postgresImage,
			tcpostgres.WithDatabase("shopdesk_test"),
			tcpostgres.WithUsername("shopdesk"),
			tcpostgres.WithPassword("shopdesk"),
			tcpostgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				t.Logf("terminate postgres container: %v", err)
			}
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := database.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))
	ResetTables(t, pool)

	return &TestDB{Pool: pool, DSN: dsn}
}

// ResetTables empties every application table so tests sharing TEST_DATABASE_URL
// start clean.
func ResetTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE inventory_movements, order_items, orders, products, customers, suppliers;
		ALTER SEQUENCE order_code_seq RESTART WITH 1`)
	require.NoError(t, err)
}

// SeedCustomer inserts a customer with the given name.
func SeedCustomer(t *testing.T, db *TestDB, name string) *models.Customer {
	t.Helper()

	customer := &models.Customer{Party: models.Party{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}}
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO customers (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		customer.ID, customer.Name, customer.CreatedAt, customer.UpdatedAt)
	require.NoError(t, err)
	return customer
}

// SeedProduct inserts an available or out of stock product.
func SeedProduct(t *testing.T, db *TestDB, sku string, price int64, stock, minStock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		SKU:           sku,
		Name:          "Product " + sku,
		Price:         price,
		Stock:         stock,
		MinStockLevel: minStock,
		Status:        models.DeriveProductStatus(stock, false),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO products (id, sku, name, price, stock, min_stock_level, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		product.ID, product.SKU, product.Name, product.Price, product.Stock,
		product.MinStockLevel, product.Status, product.CreatedAt, product.UpdatedAt)
	require.NoError(t, err)
	return product
}

// ProductStock reads the current stock of a product.
func ProductStock(t *testing.T, db *TestDB, id uuid.UUID) int {
	t.Helper()

	var stock int
	err := db.Pool.QueryRow(context.Background(), `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	require.NoError(t, err)
	return stock
}
