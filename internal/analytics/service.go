package analytics

import (
	"context"
	"fmt"
	"time"

	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"golang.org/x/sync/errgroup"
)

const (
	dateLayout        = "2006-01-02"
	defaultWindowDays = 14
	maxWindowDays     = 366
	topProductsLimit  = 5
)

// Reporter is the read side used by the report handlers.
type Reporter interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	GetDailyRevenue(ctx context.Context, from, to *time.Time) (*models.DailyRevenue, error)
	GetLowStockAlert(ctx context.Context) (*models.LowStockAlert, error)
	Location() *time.Location
}

// ReportService computes dashboard figures. Day boundaries follow the business zone,
// never the server's local zone.
type ReportService struct {
	reportRepo repositories.ReportRepository
	location   *time.Location
	now        func() time.Time
}

func NewReportService(reportRepo repositories.ReportRepository, location *time.Location) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		location:   location,
		now:        time.Now,
	}
}

// BusinessLocation is the fixed-offset zone used for civil days.
func BusinessLocation(utcOffsetHours int) *time.Location {
	if utcOffsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", utcOffsetHours), utcOffsetHours*3600)
}

func (a *ReportService) Location() *time.Location {
	return a.location
}

// startOfDay returns local midnight of t in the business zone.
func (a *ReportService) startOfDay(t time.Time) time.Time {
	t = t.In(a.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, a.location)
}

func (a *ReportService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := a.now().In(a.location)
	today := a.startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, a.location)

	stats := &models.DashboardStats{}
	var counts models.StockCounts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = a.reportRepo.StockCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OrdersToday, err = a.reportRepo.CountOrdersSince(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OrdersPending, err = a.reportRepo.CountOrdersByStatus(gctx, models.PendingStatuses)
		return err
	})
	g.Go(func() error {
		var err error
		stats.RevenueThisMonth, err = a.reportRepo.RevenueSince(gctx, models.RevenueStatuses, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TopProducts, err = a.reportRepo.TopProducts(gctx, models.RevenueStatuses, topProductsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.TotalProducts = counts.Total
	stats.OutOfStock = counts.OutOfStock
	stats.LowStockCount = counts.LowStock
	if stats.TopProducts == nil {
		stats.TopProducts = []models.TopProduct{}
	}
	return stats, nil
}

// resolveWindow fills in missing bounds so the window spans defaultWindowDays days.
func (a *ReportService) resolveWindow(from, to *time.Time) (time.Time, time.Time, error) {
	var start, end time.Time
	switch {
	case from == nil && to == nil:
		end = a.startOfDay(a.now())
		start = end.AddDate(0, 0, -(defaultWindowDays - 1))
	case to == nil:
		start = a.startOfDay(*from)
		end = start.AddDate(0, 0, defaultWindowDays-1)
	case from == nil:
		end = a.startOfDay(*to)
		start = end.AddDate(0, 0, -(defaultWindowDays - 1))
	default:
		start, end = a.startOfDay(*from), a.startOfDay(*to)
	}

	if err := common.ValidateDateRange(start, end, maxWindowDays-1); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// GetDailyRevenue returns one entry per civil day in [from, to], zero-filled.
func (a *ReportService) GetDailyRevenue(ctx context.Context, from, to *time.Time) (*models.DailyRevenue, error) {
	start, end, err := a.resolveWindow(from, to)
	if err != nil {
		return nil, err
	}

	_, offset := start.Zone()
	rows, err := a.reportRepo.DailyRevenue(ctx, models.RevenueStatuses, start, end.AddDate(0, 0, 1), offset)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]repositories.DailyRevenueRow, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}

	series := &models.DailyRevenue{
		From: start.Format(dateLayout),
		To:   end.Format(dateLayout),
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		row := byDay[key]
		series.Days = append(series.Days, models.DailyRevenuePoint{
			Date:    key,
			Revenue: row.Revenue,
			Orders:  row.Orders,
		})
	}
	return series, nil
}

func (a *ReportService) GetLowStockAlert(ctx context.Context) (*models.LowStockAlert, error) {
	items, err := a.reportRepo.LowStock(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &models.LowStockAlert{Items: items, Count: len(items)}, nil
}
