package handlers

import (
	"bytes"
	"testing"
	"time"

	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "999", formatAmount(999))
	assert.Equal(t, "1,000", formatAmount(1000))
	assert.Equal(t, "12,345,678", formatAmount(12345678))
	assert.Equal(t, "-1,500", formatAmount(-1500))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestRenderOrderSlip(t *testing.T) {
	email := "buyer@example.com"
	order := &models.Order{
		ID:        uuid.New(),
		Code:      "ORD000123",
		Status:    models.OrderStatusConfirmed,
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: uuid.New(), SKU: "TEA-01", ProductName: "Green tea", Quantity: 2, UnitPrice: 15000},
			{ProductID: uuid.New(), SKU: "CUP-02", ProductName: "Ceramic cup with a rather long product name", Quantity: 1, UnitPrice: 42000},
		},
	}
	order.Total = 2*15000 + 42000
	customer := &models.Customer{Party: models.Party{ID: uuid.New(), Name: "Somchai", Email: &email}}

	pdf, err := renderOrderSlip(order, customer, time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
