package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	NextCodeTx(ctx context.Context, tx pgx.Tx) (string, error)
	CreateTx(ctx context.Context, tx pgx.Tx, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Order, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.OrderStatus) (time.Time, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, code, customer_id, status, total, note, created_at, updated_at`

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(&order.ID, &order.Code, &order.CustomerID, &order.Status, &order.Total, &order.Note,
		&order.CreatedAt, &order.UpdatedAt)
}

// NextCodeTx draws the next value of order_code_seq. Sequence values are never
// reused, so a rolled back creation leaves a gap rather than a duplicate.
func (r *orderRepo) NextCodeTx(ctx context.Context, tx pgx.Tx) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_code_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return models.FormatOrderCode(seq), nil
}

func (r *orderRepo) CreateTx(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (id, code, customer_id, status, total, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return tx.QueryRow(ctx, query, order.ID, order.Code, order.CustomerID, order.Status, order.Total, order.Note).
		Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := scanOrder(r.db.QueryRow(ctx, query, id), order); err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return order, nil
}

// GetForUpdateTx locks the order row until the transaction ends.
func (r *orderRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	if err := scanOrder(tx.QueryRow(ctx, query, id), order); err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return order, nil
}

// UpdateStatusTx stores the new status and returns the updated_at the database wrote.
func (r *orderRepo) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.OrderStatus) (time.Time, error) {
	var updatedAt time.Time
	err := tx.QueryRow(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`, status, id).
		Scan(&updatedAt)
	if err != nil {
		return time.Time{}, notFoundOr(err, "order", id)
	}
	return updatedAt, nil
}

// DeleteDraft removes an order only while it is still a draft.
func (r *orderRepo) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var status models.OrderStatus
	if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status); err != nil {
		return notFoundOr(err, "order", id)
	}
	return common.InvalidState("cannot delete order in status %s", status)
}

func (r *orderRepo) Search(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	var conditions []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}
	if q := common.SanitizeSearchQuery(filter.Query); q != "" {
		add("(code ILIKE ? OR COALESCE(note, '') ILIKE ?)", "%"+q+"%")
	}
	if filter.Status != nil {
		add("status = ?", string(*filter.Status))
	}
	if filter.CustomerID != nil {
		add("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		add("created_at < ?", *filter.To)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
