package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:      {OrderStatusConfirmed, OrderStatusCanceled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusShipped, OrderStatusCanceled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusCompleted},
}

// RevenueStatuses are the statuses whose totals count as revenue.
var RevenueStatuses = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCompleted,
}

// PendingStatuses are the statuses of orders still awaiting fulfilment.
var PendingStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusConfirmed,
	OrderStatusProcessing,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is an allowed successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// StatusStrings converts statuses for use as a text[] query argument.
func StatusStrings(statuses []OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// FormatOrderCode renders a sequence value as a user-visible order code.
func FormatOrderCode(seq int64) string {
	return fmt.Sprintf("ORD%06d", seq)
}

// OrderSearchFilter holds search and filter criteria for order queries
type OrderSearchFilter struct {
	Query      string       `json:"query,omitempty"` // Matches order code or note
	Status     *OrderStatus `json:"status,omitempty"`
	CustomerID *uuid.UUID   `json:"customer_id,omitempty"`
	From       *time.Time   `json:"from,omitempty"`
	To         *time.Time   `json:"to,omitempty"`
	Limit      int          `json:"limit,omitempty"`
	Offset     int          `json:"offset,omitempty"`
}

type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	Code       string      `json:"code" db:"code"`
	CustomerID uuid.UUID   `json:"customer_id" db:"customer_id"`
	Status     OrderStatus `json:"status" db:"status"`
	Total      int64       `json:"total" db:"total"`
	Note       *string     `json:"note" db:"note"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

