package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementIn     MovementType = "in"
	MovementOut    MovementType = "out"
	MovementAdjust MovementType = "adjust"
)

func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	}
	return false
}

// StockDelta is the signed change a movement of this type applies to product stock.
func (t MovementType) StockDelta(quantity int) int {
	switch t {
	case MovementIn:
		return quantity
	case MovementOut:
		return -quantity
	}
	return 0
}

type ReferenceKind string

const (
	ReferenceNone       ReferenceKind = ""
	ReferenceOrder      ReferenceKind = "order"
	ReferenceAdjustment ReferenceKind = "adjustment"
)

// Reference is the originating document of a movement: none, an order, or a
// manual adjustment with an optional reason.
type Reference struct {
	Kind    ReferenceKind
	OrderID uuid.UUID
	Reason  string
}

func NoReference() Reference {
	return Reference{}
}

func OrderReference(orderID uuid.UUID) Reference {
	return Reference{Kind: ReferenceOrder, OrderID: orderID}
}

func AdjustmentReference(reason string) Reference {
	return Reference{Kind: ReferenceAdjustment, Reason: reason}
}

func (r Reference) IsNone() bool {
	return r.Kind == ReferenceNone
}

type referenceJSON struct {
	Type    ReferenceKind `json:"type"`
	OrderID *uuid.UUID    `json:"order_id,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

func (r Reference) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ReferenceNone:
		return []byte("null"), nil
	case ReferenceOrder:
		id := r.OrderID
		return json.Marshal(referenceJSON{Type: r.Kind, OrderID: &id})
	default:
		return json.Marshal(referenceJSON{Type: r.Kind, Reason: r.Reason})
	}
}

func (r *Reference) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = NoReference()
		return nil
	}
	var raw referenceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case ReferenceNone:
		*r = NoReference()
	case ReferenceOrder:
		if raw.OrderID == nil {
			return fmt.Errorf("order reference requires order_id")
		}
		*r = OrderReference(*raw.OrderID)
	case ReferenceAdjustment:
		*r = AdjustmentReference(raw.Reason)
	default:
		return fmt.Errorf("unknown reference type %q", raw.Type)
	}
	return nil
}

// Columns splits the reference into its persisted (ref_type, ref_id, ref_reason) form.
func (r Reference) Columns() (*string, *uuid.UUID, *string) {
	switch r.Kind {
	case ReferenceOrder:
		kind := string(r.Kind)
		id := r.OrderID
		return &kind, &id, nil
	case ReferenceAdjustment:
		kind := string(r.Kind)
		if r.Reason == "" {
			return &kind, nil, nil
		}
		reason := r.Reason
		return &kind, nil, &reason
	}
	return nil, nil, nil
}

// ReferenceFromColumns rebuilds a Reference from its persisted form.
func ReferenceFromColumns(refType *string, refID *uuid.UUID, refReason *string) Reference {
	if refType == nil {
		return NoReference()
	}
	switch ReferenceKind(*refType) {
	case ReferenceOrder:
		if refID != nil {
			return OrderReference(*refID)
		}
	case ReferenceAdjustment:
		reason := ""
		if refReason != nil {
			reason = *refReason
		}
		return AdjustmentReference(reason)
	}
	return NoReference()
}

// InventoryMovement is an immutable ledger entry.
type InventoryMovement struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Type        MovementType `json:"type" db:"type"`
	ProductID   uuid.UUID    `json:"product_id" db:"product_id"`
	Quantity    int          `json:"quantity" db:"quantity"`
	Reference   Reference    `json:"reference"`
	Note        *string      `json:"note" db:"note"`
	StockBefore int          `json:"stock_before" db:"stock_before"`
	StockAfter  int          `json:"stock_after" db:"stock_after"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// MovementSearchFilter holds criteria for ledger queries
type MovementSearchFilter struct {
	ProductID *uuid.UUID    `json:"product_id,omitempty"`
	Type      *MovementType `json:"type,omitempty"`
	OrderID   *uuid.UUID    `json:"order_id,omitempty"`
	From      *time.Time    `json:"from,omitempty"`
	To        *time.Time    `json:"to,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}
