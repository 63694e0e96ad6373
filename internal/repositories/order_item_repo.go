package repositories

import (
	"context"

	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, items []models.OrderItem) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]models.OrderItem, error)
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepository(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) CreateTx(ctx context.Context, tx pgx.Tx, items []models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Position); err != nil {
			return err
		}
	}
	return nil
}

const orderItemsByOrderQuery = `
	SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.position, COALESCE(p.sku, ''), COALESCE(p.name, '')
	FROM order_items oi
	LEFT JOIN products p ON p.id = oi.product_id
	WHERE oi.order_id = $1
	ORDER BY oi.position
`

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	return listOrderItems(ctx, r.db, orderID)
}

func (r *orderItemRepo) ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]models.OrderItem, error) {
	return listOrderItems(ctx, tx, orderID)
}

func listOrderItems(ctx context.Context, q Querier, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := q.Query(ctx, orderItemsByOrderQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Position,
			&item.SKU, &item.ProductName); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
