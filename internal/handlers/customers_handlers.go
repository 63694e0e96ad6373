package handlers

import (
	"net/http"

	"shopdesk/internal/models"
	"shopdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type CustomerHandlers struct {
	customerService services.CustomerService
}

func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	var req partyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer := &models.Customer{Party: req.toParty()}
	if err := h.customerService.Create(c.Request().Context(), customer); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.customerService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req partyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	customer := &models.Customer{Party: req.toParty()}
	customer.ID = id
	if err := h.customerService.Update(c.Request().Context(), customer); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.customerService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCustomers handles GET /customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	filter, err := parsePartyFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	customers, err := h.customerService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse("customers", customers, filter.Limit, filter.Offset))
}
