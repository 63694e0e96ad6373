package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetImageKey(ctx context.Context, id uuid.UUID, key string) error
	AdvancedSearch(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)

	// Transactional stock primitives used by the ledger and the order engine.
	GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	IncreaseStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (int, error)
	DecreaseStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (int, error)
	CurrentStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, sku, name, description, price, cost, stock, min_stock_level, supplier_id, image_key, status, created_at, updated_at`

// stockStatusCase recomputes status from the pre-update stock plus the delta in $1.
const stockStatusCase = `CASE WHEN status = 'discontinued' THEN status WHEN stock %s $1 <= 0 THEN 'out_of_stock' ELSE 'available' END`

func scanProduct(row pgx.Row, product *models.Product) error {
	return row.Scan(&product.ID, &product.SKU, &product.Name, &product.Description, &product.Price, &product.Cost,
		&product.Stock, &product.MinStockLevel, &product.SupplierID, &product.ImageKey, &product.Status,
		&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, price, cost, stock, min_stock_level, supplier_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.SKU, product.Name, product.Description, product.Price,
		product.Cost, product.Stock, product.MinStockLevel, product.SupplierID, product.Status)
	if isPgError(err, pgUniqueViolation) {
		return common.NewValidationError("sku", "already exists")
	}
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := scanProduct(r.db.QueryRow(ctx, query, id), product); err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return product, nil
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	if err := scanProduct(r.db.QueryRow(ctx, query, sku), product); err != nil {
		return nil, notFoundOr(err, "product", sku)
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET sku = $1, name = $2, description = $3, price = $4, cost = $5, stock = $6, min_stock_level = $7, supplier_id = $8, status = $9, updated_at = NOW()
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query, product.SKU, product.Name, product.Description, product.Price, product.Cost,
		product.Stock, product.MinStockLevel, product.SupplierID, product.Status, product.ID)
	if isPgError(err, pgUniqueViolation) {
		return common.NewValidationError("sku", "already exists")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("product", product.ID)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return dependentRowsError(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("product", id)
	}
	return nil
}

func (r *productRepo) SetImageKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET image_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("product", id)
	}
	return nil
}

var productSortFields = map[string]string{
	"name":       "p.name",
	"sku":        "p.sku",
	"stock":      "p.stock",
	"price":      "p.price",
	"created_at": "p.created_at",
}

func (r *productRepo) AdvancedSearch(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	sortField, ok := productSortFields[filter.SortBy]
	if !ok {
		sortField = "p.created_at"
	}

	var conditions []string
	var args []interface{}
	conditionCount := 0

	if q := common.SanitizeSearchQuery(filter.Query); q != "" {
		conditionCount++
		conditions = append(conditions, fmt.Sprintf("(p.sku ILIKE $%d OR p.name ILIKE $%d)", conditionCount, conditionCount))
		args = append(args, "%"+q+"%")
	}
	if filter.Status != nil {
		conditionCount++
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", conditionCount))
		args = append(args, string(*filter.Status))
	}
	if filter.SupplierID != nil {
		conditionCount++
		conditions = append(conditions, fmt.Sprintf("p.supplier_id = $%d", conditionCount))
		args = append(args, *filter.SupplierID)
	}
	if filter.LowStockOnly {
		conditions = append(conditions, "p.stock <= p.min_stock_level")
	}
	if filter.ExcludeDiscontinued {
		conditions = append(conditions, "p.status <> 'discontinued'")
	}

	query := `SELECT p.` + strings.ReplaceAll(productColumns, ", ", ", p.") + ` FROM products p`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s %s, p.id LIMIT $%d OFFSET $%d",
		sortField, common.ValidateSortOrder(filter.SortOrder), conditionCount+1, conditionCount+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[uuid.UUID]*models.Product, len(ids))
	for rows.Next() {
		product := &models.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, err
		}
		found[product.ID] = product
	}
	return found, rows.Err()
}

// IncreaseStockTx adds quantity to stock and returns the new stock.
func (r *productRepo) IncreaseStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (int, error) {
	query := `UPDATE products SET stock = stock + $1, status = ` + fmt.Sprintf(stockStatusCase, "+") + `, updated_at = NOW() WHERE id = $2 RETURNING stock`
	var stock int
	if err := tx.QueryRow(ctx, query, quantity, id).Scan(&stock); err != nil {
		if isPgError(err, pgNumericOutOfRange) {
			return 0, common.NewValidationError("quantity", "stock would exceed the storable maximum")
		}
		return 0, notFoundOr(err, "product", id)
	}
	return stock, nil
}

// DecreaseStockTx subtracts quantity only when the product holds at least that much.
// A missing product is NotFound; a short product is InsufficientStockError.
func (r *productRepo) DecreaseStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (int, error) {
	query := `UPDATE products SET stock = stock - $1, status = ` + fmt.Sprintf(stockStatusCase, "-") + `, updated_at = NOW() WHERE id = $2 AND stock >= $1 RETURNING stock`
	var stock int
	err := tx.QueryRow(ctx, query, quantity, id).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var sku string
	if err := tx.QueryRow(ctx, `SELECT sku FROM products WHERE id = $1`, id).Scan(&sku); err != nil {
		return 0, notFoundOr(err, "product", id)
	}
	return 0, &common.InsufficientStockError{ProductID: id, SKU: sku, Requested: quantity}
}

func (r *productRepo) CurrentStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
	var stock int
	if err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&stock); err != nil {
		return 0, notFoundOr(err, "product", id)
	}
	return stock, nil
}
