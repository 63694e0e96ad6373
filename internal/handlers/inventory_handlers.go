package handlers

import (
	"net/http"
	"strings"

	"shopdesk/internal/analytics"
	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InventoryHandlers exposes the stock ledger.
type InventoryHandlers struct {
	inventoryService services.InventoryService
	reporter         analytics.Reporter
}

func NewInventoryHandlers(inventoryService services.InventoryService, reporter analytics.Reporter) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
		reporter:         reporter,
	}
}

type movementRequest struct {
	Type      string           `json:"type" validate:"required,oneof=in out adjust"`
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	Note      *string          `json:"note" validate:"omitempty,max=1000"`
	Reference models.Reference `json:"reference"`
}

// PostMovement handles POST /inventory/movements
func (h *InventoryHandlers) PostMovement(c echo.Context) error {
	var req movementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	movement, err := h.inventoryService.PostMovement(c.Request().Context(), &services.PostMovementInput{
		Type:      models.MovementType(req.Type),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Note:      req.Note,
		Reference: req.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, movement)
}

// GetMovement handles GET /inventory/movements/:id
func (h *InventoryHandlers) GetMovement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	movement, err := h.inventoryService.GetMovement(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, movement)
}

// ListMovements handles GET /inventory/movements
func (h *InventoryHandlers) ListMovements(c echo.Context) error {
	limit, offset, err := queryPage(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := &models.MovementSearchFilter{Limit: limit, Offset: offset}

	if filter.ProductID, err = queryUUID(c, "product_id"); err != nil {
		return respondError(c, err)
	}
	if filter.OrderID, err = queryUUID(c, "order_id"); err != nil {
		return respondError(c, err)
	}
	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		t := models.MovementType(raw)
		filter.Type = &t
	}

	loc := h.reporter.Location()
	if raw := c.QueryParam("from"); raw != "" {
		from, err := common.ParseCivilDate(raw, "from", loc)
		if err != nil {
			return respondError(c, err)
		}
		filter.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := common.ParseCivilDate(raw, "to", loc)
		if err != nil {
			return respondError(c, err)
		}
		// inclusive civil day
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	movements, err := h.inventoryService.ListMovements(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse("movements", movements, limit, offset))
}
