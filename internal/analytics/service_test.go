package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) StockCounts(ctx context.Context) (models.StockCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.StockCounts), args.Error(1)
}

func (m *MockReportRepository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) CountOrdersByStatus(ctx context.Context, statuses []models.OrderStatus) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) RevenueSince(ctx context.Context, statuses []models.OrderStatus, since time.Time) (int64, error) {
	args := m.Called(ctx, statuses, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) TopProducts(ctx context.Context, statuses []models.OrderStatus, limit int) ([]models.TopProduct, error) {
	args := m.Called(ctx, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopProduct), args.Error(1)
}

func (m *MockReportRepository) DailyRevenue(ctx context.Context, statuses []models.OrderStatus, from, to time.Time, utcOffsetSeconds int) ([]repositories.DailyRevenueRow, error) {
	args := m.Called(ctx, statuses, from, to, utcOffsetSeconds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.DailyRevenueRow), args.Error(1)
}

func (m *MockReportRepository) LowStock(ctx context.Context, productIDs []uuid.UUID) ([]models.LowStockItem, error) {
	args := m.Called(ctx, productIDs)
	return args.Get(0).([]models.LowStockItem), args.Error(1)
}

var bangkok = BusinessLocation(7)

func newService(repo *MockReportRepository, now time.Time) *ReportService {
	s := NewReportService(repo, bangkok)
	s.now = func() time.Time { return now }
	return s
}

func TestBusinessLocation(t *testing.T) {
	assert.Equal(t, time.UTC, BusinessLocation(0))

	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, BusinessLocation(7)).Zone()
	assert.Equal(t, 7*3600, offset)
	assert.Equal(t, "UTC-5", BusinessLocation(-5).String())
}

func TestGetDailyRevenue_DefaultWindowIsDense(t *testing.T) {
	repo := new(MockReportRepository)
	// 18:30 UTC is already the next civil day at UTC+7
	now := time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)
	service := newService(repo, now)

	start := time.Date(2024, 4, 28, 0, 0, 0, 0, bangkok)
	end := time.Date(2024, 5, 12, 0, 0, 0, 0, bangkok)
	repo.On("DailyRevenue", mock.Anything, models.RevenueStatuses, start, end, 7*3600).
		Return([]repositories.DailyRevenueRow{
			{Day: "2024-04-28", Revenue: 1200, Orders: 2},
			{Day: "2024-05-05", Revenue: 300, Orders: 1},
		}, nil)

	series, err := service.GetDailyRevenue(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, series.Days, 14)
	assert.Equal(t, "2024-04-28", series.From)
	assert.Equal(t, "2024-05-11", series.To)
	assert.Equal(t, "2024-04-28", series.Days[0].Date)
	assert.Equal(t, int64(1200), series.Days[0].Revenue)
	assert.Equal(t, int64(0), series.Days[1].Revenue)
	assert.Equal(t, int64(300), series.Days[7].Revenue)
	assert.Equal(t, "2024-05-11", series.Days[13].Date)
	repo.AssertExpectations(t)
}

func TestGetDailyRevenue_ExplicitWindow(t *testing.T) {
	repo := new(MockReportRepository)
	service := newService(repo, time.Now())

	from := time.Date(2024, 2, 27, 0, 0, 0, 0, bangkok)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, bangkok)
	repo.On("DailyRevenue", mock.Anything, models.RevenueStatuses, from, to.AddDate(0, 0, 1), 7*3600).
		Return([]repositories.DailyRevenueRow{}, nil)

	series, err := service.GetDailyRevenue(context.Background(), &from, &to)
	require.NoError(t, err)

	dates := make([]string, 0, len(series.Days))
	for _, d := range series.Days {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, dates)
}

func TestGetDailyRevenue_SingleBoundFillsDefaultWindow(t *testing.T) {
	repo := new(MockReportRepository)
	service := newService(repo, time.Now())

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, bangkok)
	repo.On("DailyRevenue", mock.Anything, models.RevenueStatuses, from, from.AddDate(0, 0, 14), 7*3600).
		Return([]repositories.DailyRevenueRow{}, nil)

	series, err := service.GetDailyRevenue(context.Background(), &from, nil)
	require.NoError(t, err)
	assert.Len(t, series.Days, 14)
	assert.Equal(t, "2024-06-14", series.To)
}

func TestGetDailyRevenue_RejectsBadWindows(t *testing.T) {
	repo := new(MockReportRepository)
	service := newService(repo, time.Now())

	from := time.Date(2024, 1, 10, 0, 0, 0, 0, bangkok)
	before := from.AddDate(0, 0, -1)
	tooFar := from.AddDate(0, 0, maxWindowDays)

	_, err := service.GetDailyRevenue(context.Background(), &from, &before)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = service.GetDailyRevenue(context.Background(), &from, &tooFar)
	assert.ErrorIs(t, err, common.ErrValidation)

	longest := from.AddDate(0, 0, maxWindowDays-1)
	repo.On("DailyRevenue", mock.Anything, models.RevenueStatuses, from, longest.AddDate(0, 0, 1), 7*3600).
		Return([]repositories.DailyRevenueRow{}, nil)
	series, err := service.GetDailyRevenue(context.Background(), &from, &longest)
	require.NoError(t, err)
	assert.Len(t, series.Days, maxWindowDays)
}

func TestGetDashboardStats(t *testing.T) {
	repo := new(MockReportRepository)
	now := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC) // June 1st at UTC+7
	service := newService(repo, now)

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, bangkok)
	repo.On("StockCounts", mock.Anything).Return(models.StockCounts{Total: 12, OutOfStock: 2, LowStock: 4}, nil)
	repo.On("CountOrdersSince", mock.Anything, today).Return(int64(3), nil)
	repo.On("CountOrdersByStatus", mock.Anything, models.PendingStatuses).Return(int64(5), nil)
	repo.On("RevenueSince", mock.Anything, models.RevenueStatuses, today).Return(int64(9900), nil)
	repo.On("TopProducts", mock.Anything, models.RevenueStatuses, topProductsLimit).Return(nil, nil)

	stats, err := service.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.OutOfStock)
	assert.Equal(t, int64(4), stats.LowStockCount)
	assert.Equal(t, int64(3), stats.OrdersToday)
	assert.Equal(t, int64(5), stats.OrdersPending)
	assert.Equal(t, int64(9900), stats.RevenueThisMonth)
	assert.NotNil(t, stats.TopProducts)
	repo.AssertExpectations(t)
}

func TestGetDashboardStats_PropagatesErrors(t *testing.T) {
	repo := new(MockReportRepository)
	service := newService(repo, time.Now())
	boom := errors.New("db down")

	repo.On("StockCounts", mock.Anything).Return(models.StockCounts{}, boom)
	repo.On("CountOrdersSince", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	repo.On("CountOrdersByStatus", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	repo.On("RevenueSince", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	repo.On("TopProducts", mock.Anything, mock.Anything, mock.Anything).Return([]models.TopProduct{}, nil).Maybe()

	_, err := service.GetDashboardStats(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGetLowStockAlert(t *testing.T) {
	repo := new(MockReportRepository)
	service := newService(repo, time.Now())

	repo.On("LowStock", mock.Anything, []uuid.UUID(nil)).Return([]models.LowStockItem{
		{SKU: "A-1", Stock: 0, MinStockLevel: 3, Status: models.ProductStatusOutOfStock},
		{SKU: "B-2", Stock: 2, MinStockLevel: 5, Status: models.ProductStatusAvailable},
	}, nil)

	alert, err := service.GetLowStockAlert(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, alert.Count)
}
