package repositories

import (
	"context"
	"fmt"
	"strings"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MovementRepository appends to and reads the inventory ledger. There is no update
// or delete: ledger rows are immutable.
type MovementRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, movement *models.InventoryMovement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryMovement, error)
	Search(ctx context.Context, filter *models.MovementSearchFilter) ([]*models.InventoryMovement, error)
}

type movementRepo struct {
	db DB
}

func NewMovementRepository(db DB) MovementRepository {
	return &movementRepo{db: db}
}

const movementColumns = `id, type, product_id, quantity, ref_type, ref_id, ref_reason, note, stock_before, stock_after, created_at`

func scanMovement(row pgx.Row, m *models.InventoryMovement) error {
	var refType, refReason *string
	var refID *uuid.UUID
	if err := row.Scan(&m.ID, &m.Type, &m.ProductID, &m.Quantity, &refType, &refID, &refReason, &m.Note,
		&m.StockBefore, &m.StockAfter, &m.CreatedAt); err != nil {
		return err
	}
	m.Reference = models.ReferenceFromColumns(refType, refID, refReason)
	return nil
}

func (r *movementRepo) CreateTx(ctx context.Context, tx pgx.Tx, movement *models.InventoryMovement) error {
	refType, refID, refReason := movement.Reference.Columns()
	query := `
		INSERT INTO inventory_movements (id, type, product_id, quantity, ref_type, ref_id, ref_reason, note, stock_before, stock_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING created_at
	`
	return tx.QueryRow(ctx, query, movement.ID, movement.Type, movement.ProductID, movement.Quantity,
		refType, refID, refReason, movement.Note, movement.StockBefore, movement.StockAfter).Scan(&movement.CreatedAt)
}

func (r *movementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryMovement, error) {
	movement := &models.InventoryMovement{}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	if err := scanMovement(r.db.QueryRow(ctx, query, id), movement); err != nil {
		return nil, notFoundOr(err, "inventory movement", id)
	}
	return movement, nil
}

func (r *movementRepo) Search(ctx context.Context, filter *models.MovementSearchFilter) ([]*models.InventoryMovement, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	var conditions []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.ProductID != nil {
		add("product_id = $%d", *filter.ProductID)
	}
	if filter.Type != nil {
		add("type = $%d", string(*filter.Type))
	}
	if filter.OrderID != nil {
		add("ref_type = 'order' AND ref_id = $%d", *filter.OrderID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}

	query := `SELECT ` + movementColumns + ` FROM inventory_movements`
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

	movements := []*models.InventoryMovement{}
	for rows.Next() {
		movement := &models.InventoryMovement{}
		if err := scanMovement(rows, movement); err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}
	return movements, rows.Err()
}
