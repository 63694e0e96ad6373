package handlers

import (
	"strings"

	"shopdesk/internal/models"

	"github.com/labstack/echo/v4"
)

type partyRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	TaxID   *string `json:"tax_id" validate:"omitempty,max=50"`
	Note    *string `json:"note" validate:"omitempty,max=1000"`
}

func (r *partyRequest) toParty() models.Party {
	return models.Party{
		Name:    strings.TrimSpace(r.Name),
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		TaxID:   r.TaxID,
		Note:    r.Note,
	}
}

func parsePartyFilter(c echo.Context) (*models.PartySearchFilter, error) {
	limit, offset, err := queryPage(c)
	if err != nil {
		return nil, err
	}
	return &models.PartySearchFilter{
		Query:  c.QueryParam("q"),
		Limit:  limit,
		Offset: offset,
	}, nil
}
