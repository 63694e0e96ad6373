package models

import (
	"github.com/google/uuid"
)

type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int64     `json:"unit_price" db:"unit_price"`
	Position  int       `json:"-" db:"position"`

	// Current catalog values, joined at read time.
	SKU         string `json:"sku,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

func (i OrderItem) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}
