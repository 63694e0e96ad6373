package jobs

import (
	"context"

	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LowStockSource lists products at or under their reorder threshold.
// repositories.ReportRepository satisfies it.
type LowStockSource interface {
	LowStock(ctx context.Context, productIDs []uuid.UUID) ([]models.LowStockItem, error)
}

type InventoryAlertService struct {
	source LowStockSource
}

type InventoryAlert struct {
	ProductID    uuid.UUID
	SKU          string
	ProductName  string
	CurrentStock int
	Threshold    int
	OutOfStock   bool
}

func NewInventoryAlertService(source LowStockSource) *InventoryAlertService {
	return &InventoryAlertService{source: source}
}

// CheckLowStock returns an alert per low product. An empty productIDs checks the
// whole catalog.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context, productIDs []uuid.UUID) ([]InventoryAlert, error) {
	items, err := a.source.LowStock(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	alerts := make([]InventoryAlert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, InventoryAlert{
			ProductID:    item.ProductID,
			SKU:          item.SKU,
			ProductName:  item.Name,
			CurrentStock: item.Stock,
			Threshold:    item.MinStockLevel,
			OutOfStock:   item.Status == models.ProductStatusOutOfStock,
		})
	}
	return alerts, nil
}

func (a *InventoryAlertService) LogLowStockAlerts(alerts []InventoryAlert) {
	if len(alerts) == 0 {
		log.Debug().Msg("no low stock alerts")
		return
	}

	for _, alert := range alerts {
		log.Warn().
			Str("product_id", alert.ProductID.String()).
			Str("sku", alert.SKU).
			Str("name", alert.ProductName).
			Int("stock", alert.CurrentStock).
			Int("min_stock_level", alert.Threshold).
			Bool("out_of_stock", alert.OutOfStock).
			Msg("low stock")
	}
}

// ScheduledLowStockCheck scans the whole catalog and logs every alert.
func (a *InventoryAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	alerts, err := a.CheckLowStock(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("scheduled low stock check failed")
		return err
	}
	a.LogLowStockAlerts(alerts)
	log.Info().Int("alerts", len(alerts)).Msg("scheduled low stock check completed")
	return nil
}
