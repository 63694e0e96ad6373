package handlers

import (
	"net/http"

	"shopdesk/internal/models"
	"shopdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type SupplierHandlers struct {
	supplierService services.SupplierService
}

func NewSupplierHandlers(supplierService services.SupplierService) *SupplierHandlers {
	return &SupplierHandlers{supplierService: supplierService}
}

// CreateSupplier handles POST /suppliers
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	var req partyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	supplier := &models.Supplier{Party: req.toParty()}
	if err := h.supplierService.Create(c.Request().Context(), supplier); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, supplier)
}

// GetSupplier handles GET /suppliers/:id
func (h *SupplierHandlers) GetSupplier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	supplier, err := h.supplierService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier handles PUT /suppliers/:id
func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req partyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	supplier := &models.Supplier{Party: req.toParty()}
	supplier.ID = id
	if err := h.supplierService.Update(c.Request().Context(), supplier); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier handles DELETE /suppliers/:id
func (h *SupplierHandlers) DeleteSupplier(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.supplierService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSuppliers handles GET /suppliers
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	filter, err := parsePartyFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	suppliers, err := h.supplierService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse("suppliers", suppliers, filter.Limit, filter.Offset))
}
