package handlers

import (
	"net/http"
	"time"

	"shopdesk/internal/analytics"
	"shopdesk/internal/common"

	"github.com/labstack/echo/v4"
)

type ReportHandlers struct {
	reporter analytics.Reporter
}

func NewReportHandlers(reporter analytics.Reporter) *ReportHandlers {
	return &ReportHandlers{reporter: reporter}
}

// GetDashboard handles GET /reports/dashboard
func (h *ReportHandlers) GetDashboard(c echo.Context) error {
	stats, err := h.reporter.GetDashboardStats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetDailyRevenue handles GET /reports/daily-revenue?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ReportHandlers) GetDailyRevenue(c echo.Context) error {
	from, err := h.civilDate(c, "from")
	if err != nil {
		return respondError(c, err)
	}
	to, err := h.civilDate(c, "to")
	if err != nil {
		return respondError(c, err)
	}

	series, err := h.reporter.GetDailyRevenue(c.Request().Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

// GetLowStock handles GET /reports/low-stock
func (h *ReportHandlers) GetLowStock(c echo.Context) error {
	alert, err := h.reporter.GetLowStockAlert(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, alert)
}

func (h *ReportHandlers) civilDate(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := common.ParseCivilDate(raw, name, h.reporter.Location())
	if err != nil {
		return nil, err
	}
	return &t, nil
}
