package handlers

import (
	"net/http"

	"shopdesk/internal/jobs"
	"shopdesk/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobStatusSource reports scheduled jobs. *background.JobScheduler satisfies it.
type JobStatusSource interface {
	GetJobStatus() []background.JobStatus
}

type JobHandlers struct {
	inventoryAlerts *jobs.InventoryAlertService
	scheduler       JobStatusSource
}

func NewJobHandlers(inventoryAlerts *jobs.InventoryAlertService, scheduler JobStatusSource) *JobHandlers {
	return &JobHandlers{
		inventoryAlerts: inventoryAlerts,
		scheduler:       scheduler,
	}
}

// GetJobStatus handles GET /admin/jobs
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"jobs": h.scheduler.GetJobStatus(),
	})
}

// RunLowStockScan handles POST /admin/jobs/low-stock-scan
func (h *JobHandlers) RunLowStockScan(c echo.Context) error {
	ctx := c.Request().Context()

	alerts, err := h.inventoryAlerts.CheckLowStock(ctx, nil)
	if err != nil {
		return respondError(c, err)
	}
	h.inventoryAlerts.LogLowStockAlerts(alerts)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
