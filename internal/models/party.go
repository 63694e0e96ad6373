package models

import (
	"time"

	"github.com/google/uuid"
)

// Party holds the contact fields shared by customers and suppliers.
type Party struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	TaxID     *string   `json:"tax_id" db:"tax_id"`
	Note      *string   `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Customer struct {
	Party
}

type Supplier struct {
	Party
}

type PartySearchFilter struct {
	Query  string `json:"query,omitempty"` // name or email
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
