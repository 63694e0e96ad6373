package models

import (
	"github.com/google/uuid"
)

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	Revenue   int64     `json:"revenue"`
}

type DashboardStats struct {
	TotalProducts    int64        `json:"total_products"`
	OutOfStock       int64        `json:"out_of_stock"`
	LowStockCount    int64        `json:"low_stock_count"`
	OrdersToday      int64        `json:"orders_today"`
	OrdersPending    int64        `json:"orders_pending"`
	RevenueThisMonth int64        `json:"revenue_this_month"`
	TopProducts      []TopProduct `json:"top_products"`
}

// StockCounts is the catalog part of the dashboard.
type StockCounts struct {
	Total      int64
	OutOfStock int64
	LowStock   int64
}

// DailyRevenuePoint is one civil day of the revenue series.
type DailyRevenuePoint struct {
	Date    string `json:"date"` // YYYY-MM-DD in the business zone
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

type DailyRevenue struct {
	From string              `json:"from"`
	To   string              `json:"to"`
	Days []DailyRevenuePoint `json:"days"`
}

type LowStockItem struct {
	ProductID     uuid.UUID     `json:"product_id"`
	SKU           string        `json:"sku"`
	Name          string        `json:"name"`
	Stock         int           `json:"stock"`
	MinStockLevel int           `json:"min_stock_level"`
	Status        ProductStatus `json:"status"`
}

type LowStockAlert struct {
	Items []LowStockItem `json:"items"`
	Count int            `json:"count"`
}
