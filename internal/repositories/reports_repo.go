package repositories

import (
	"context"
	"time"

	"shopdesk/internal/models"

	"github.com/google/uuid"
)

// DailyRevenueRow is one non-empty business day returned by the aggregation.
type DailyRevenueRow struct {
	Day     string
	Revenue int64
	Orders  int64
}

// ReportRepository runs the read-only aggregations behind the dashboard and alerts.
type ReportRepository interface {
	StockCounts(ctx context.Context) (models.StockCounts, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	CountOrdersByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error)
	RevenueSince(ctx context.Context, statuses []models.OrderStatus, since time.Time) (int64, error)
	TopProducts(ctx context.Context, statuses []models.OrderStatus, limit int) ([]models.TopProduct, error)
	DailyRevenue(ctx context.Context, statuses []models.OrderStatus, from, to time.Time, utcOffsetSeconds int) ([]DailyRevenueRow, error)
	LowStock(ctx context.Context, productIDs []uuid.UUID) ([]models.LowStockItem, error)
}

type reportRepo struct {
	db DB
}

func NewReportRepository(db DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) StockCounts(ctx context.Context) (models.StockCounts, error) {
	var counts models.StockCounts
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'out_of_stock'),
			COUNT(*) FILTER (WHERE stock <= min_stock_level AND status <> 'out_of_stock')
		FROM products
	`
	err := r.db.QueryRow(ctx, query).Scan(&counts.Total, &counts.OutOfStock, &counts.LowStock)
	return counts, err
}

func (r *reportRepo) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func (r *reportRepo) CountOrdersByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = ANY($1)`, models.StatusStrings(statuses)).Scan(&n)
	return n, err
}

func (r *reportRepo) RevenueSince(ctx context.Context, statuses []models.OrderStatus, since time.Time) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(total), 0)::bigint FROM orders WHERE status = ANY($1) AND created_at >= $2`
	err := r.db.QueryRow(ctx, query, models.StatusStrings(statuses), since).Scan(&total)
	return total, err
}

func (r *reportRepo) TopProducts(ctx context.Context, statuses []models.OrderStatus, limit int) ([]models.TopProduct, error) {
	query := `
		SELECT oi.product_id, COALESCE(p.sku, ''), COALESCE(p.name, ''),
			SUM(oi.quantity)::bigint AS quantity,
			SUM(oi.quantity::bigint * oi.unit_price)::bigint AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE o.status = ANY($1)
		GROUP BY oi.product_id, p.sku, p.name
		ORDER BY revenue DESC, oi.product_id
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, models.StatusStrings(statuses), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []models.TopProduct{}
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		top = append(top, p)
	}
	return top, rows.Err()
}

// DailyRevenue groups orders in [from, to) by civil day at the given UTC offset.
// Days without orders are absent; callers densify the series.
func (r *reportRepo) DailyRevenue(ctx context.Context, statuses []models.OrderStatus, from, to time.Time, utcOffsetSeconds int) ([]DailyRevenueRow, error) {
	query := `
		SELECT to_char((created_at AT TIME ZONE 'UTC') + make_interval(secs => $4::int), 'YYYY-MM-DD') AS day,
			COALESCE(SUM(total), 0)::bigint,
			COUNT(*)
		FROM orders
		WHERE status = ANY($1) AND created_at >= $2 AND created_at < $3
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.Query(ctx, query, models.StatusStrings(statuses), from, to, utcOffsetSeconds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DailyRevenueRow
	for rows.Next() {
		var d DailyRevenueRow
		if err := rows.Scan(&d.Day, &d.Revenue, &d.Orders); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// LowStock lists products at or under their minimum that are not discontinued,
// lowest stock first. A non-empty productIDs restricts the scan to those products.
func (r *reportRepo) LowStock(ctx context.Context, productIDs []uuid.UUID) ([]models.LowStockItem, error) {
	query := `
		SELECT id, sku, name, stock, min_stock_level, status
		FROM products
		WHERE stock <= min_stock_level AND status <> 'discontinued'
	`
	var args []interface{}
	if len(productIDs) > 0 {
		query += ` AND id = ANY($1)`
		args = append(args, productIDs)
	}
	query += ` ORDER BY stock ASC, sku ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.LowStockItem{}
	for rows.Next() {
		var item models.LowStockItem
		if err := rows.Scan(&item.ProductID, &item.SKU, &item.Name, &item.Stock, &item.MinStockLevel, &item.Status); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
