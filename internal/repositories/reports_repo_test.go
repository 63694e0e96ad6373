package repositories

import (
	"context"
	"testing"
	"time"

	"shopdesk/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepo_DailyRevenue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	loc := time.FixedZone("UTC+7", 7*3600)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 3)

	mock.ExpectQuery(`FROM orders\s+WHERE status = ANY\(\$1\) AND created_at >= \$2 AND created_at < \$3`).
		WithArgs([]string{"confirmed", "processing", "shipped", "completed"}, from, to, 7*3600).
		WillReturnRows(pgxmock.NewRows([]string{"day", "revenue", "orders"}).
			AddRow("2024-05-01", int64(1500), int64(2)).
			AddRow("2024-05-03", int64(700), int64(1)))

	rows, err := NewReportRepository(mock).DailyRevenue(context.Background(), models.RevenueStatuses, from, to, 7*3600)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, DailyRevenueRow{Day: "2024-05-01", Revenue: 1500, Orders: 2}, rows[0])
	assert.Equal(t, "2024-05-03", rows[1].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_LowStockRestrictedToProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`WHERE stock <= min_stock_level AND status <> 'discontinued'\s+AND id = ANY\(\$1\) ORDER BY stock ASC, sku ASC`).
		WithArgs([]uuid.UUID{id}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "sku", "name", "stock", "min_stock_level", "status"}).
			AddRow(id, "A-1", "Widget", 0, 5, models.ProductStatusOutOfStock))

	items, err := NewReportRepository(mock).LowStock(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ProductStatusOutOfStock, items[0].Status)
	assert.Equal(t, 5, items[0].MinStockLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_StockCounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FILTER \(WHERE status = 'out_of_stock'\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "out", "low"}).AddRow(int64(10), int64(2), int64(3)))

	counts, err := NewReportRepository(mock).StockCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StockCounts{Total: 10, OutOfStock: 2, LowStock: 3}, counts)
}
