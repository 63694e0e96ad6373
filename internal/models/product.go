package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "available"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// DeriveProductStatus computes the status a product must carry for the given stock.
// A discontinued product keeps that status until the flag is cleared.
func DeriveProductStatus(stock int, discontinued bool) ProductStatus {
	if discontinued {
		return ProductStatusDiscontinued
	}
	if stock <= 0 {
		return ProductStatusOutOfStock
	}
	return ProductStatusAvailable
}

// ProductSearchFilter holds search and filter criteria for product queries
type ProductSearchFilter struct {
	Query               string         `json:"query,omitempty"` // Matches sku or name
	Status              *ProductStatus `json:"status,omitempty"`
	SupplierID          *uuid.UUID     `json:"supplier_id,omitempty"`
	LowStockOnly        bool           `json:"low_stock_only,omitempty"` // stock <= min_stock_level
	ExcludeDiscontinued bool           `json:"-"`
	SortBy              string         `json:"sort_by,omitempty"`    // name, sku, stock, price, created_at
	SortOrder           string         `json:"sort_order,omitempty"` // asc, desc
	Limit               int            `json:"limit,omitempty"`
	Offset              int            `json:"offset,omitempty"`
}

type Product struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	SKU           string        `json:"sku" db:"sku"`
	Name          string        `json:"name" db:"name"`
	Description   *string       `json:"description" db:"description"`
	Price         int64         `json:"price" db:"price"`
	Cost          int64         `json:"cost" db:"cost"`
	Stock         int           `json:"stock" db:"stock"`
	MinStockLevel int           `json:"min_stock_level" db:"min_stock_level"`
	SupplierID    *uuid.UUID    `json:"supplier_id" db:"supplier_id"`
	ImageKey      *string       `json:"image_key,omitempty" db:"image_key"`
	Status        ProductStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsDiscontinued reports whether the discontinued flag is set.
func (p *Product) IsDiscontinued() bool {
	return p.Status == ProductStatusDiscontinued
}

// IsLowStock reports whether the product is at or under its reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStockLevel
}

// ShopProduct is the storefront view of a product. Cost and supplier stay internal.
type ShopProduct struct {
	ID          uuid.UUID     `json:"id"`
	SKU         string        `json:"sku"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Price       int64         `json:"price"`
	InStock     bool          `json:"in_stock"`
	Status      ProductStatus `json:"status"`
}

func (p *Product) ShopView() ShopProduct {
	return ShopProduct{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		InStock:     p.Stock > 0,
		Status:      p.Status,
	}
}
