package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"shopdesk/internal/analytics"
	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandlers struct {
	orderService    services.OrderServiceInterface
	customerService services.CustomerService
	reporter        analytics.Reporter
}

func NewOrderHandlers(orderService services.OrderServiceInterface, customerService services.CustomerService, reporter analytics.Reporter) *OrderHandlers {
	return &OrderHandlers{
		orderService:    orderService,
		customerService: customerService,
		reporter:        reporter,
	}
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	UnitPrice *int64    `json:"unit_price" validate:"omitempty,gte=0"`
}

type createOrderRequest struct {
	CustomerID *uuid.UUID         `json:"customer_id"`
	Items      []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Note       *string            `json:"note" validate:"omitempty,max=1000"`
}

type setStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Restock bool   `json:"restock"`
}

func principalOf(c echo.Context) (common.Principal, bool) {
	return common.GetPrincipalFromContext(c.Request().Context())
}

// loadVisibleOrder fetches an order the caller may see. Customers get NotFound for
// orders that are not theirs.
func (h *OrderHandlers) loadVisibleOrder(c echo.Context) (*models.Order, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, err
	}
	order, err := h.orderService.GetOrder(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if p, ok := principalOf(c); ok && !p.IsStaff() {
		if p.CustomerID == nil || *p.CustomerID != order.CustomerID {
			return nil, common.NotFound("order", id)
		}
	}
	return order, nil
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, ok := principalOf(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if !p.IsStaff() {
		if req.CustomerID != nil && (p.CustomerID == nil || *req.CustomerID != *p.CustomerID) {
			return common.SendForbiddenError(c)
		}
		req.CustomerID = p.CustomerID
		// customers always pay the catalog price
		for i, item := range req.Items {
			if item.UnitPrice != nil {
				return common.SendValidationError(c, fmt.Sprintf("items[%d].unit_price", i), "cannot be set by customers")
			}
		}
	}
	if req.CustomerID == nil {
		return common.SendValidationError(c, "customer_id", "is required")
	}

	input := &services.CreateOrderInput{
		CustomerID: *req.CustomerID,
		Note:       req.Note,
		Items:      make([]services.CreateOrderItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	order, err := h.loadVisibleOrder(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	limit, offset, err := queryPage(c)
	if err != nil {
		return respondError(c, err)
	}
	filter := &models.OrderSearchFilter{
		Query:  c.QueryParam("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status := models.OrderStatus(raw)
		filter.Status = &status
	}
	if filter.CustomerID, err = queryUUID(c, "customer_id"); err != nil {
		return respondError(c, err)
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
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	p, ok := principalOf(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if !p.IsStaff() {
		filter.CustomerID = p.CustomerID
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse("orders", orders, limit, offset))
}

// SetOrderStatus handles PATCH /orders/:id/status
func (h *OrderHandlers) SetOrderStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req setStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.SetOrderStatus(c.Request().Context(), id, models.OrderStatus(req.Status),
		services.StatusChangeOptions{Restock: req.Restock})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.orderService.DeleteOrder(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOrderSlip handles GET /orders/:id/slip and returns the order as a PDF.
func (h *OrderHandlers) GetOrderSlip(c echo.Context) error {
	order, err := h.loadVisibleOrder(c)
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.customerService.GetByID(c.Request().Context(), order.CustomerID)
	if err != nil {
		return respondError(c, err)
	}

	pdf, err := renderOrderSlip(order, customer, h.reporter.Location())
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, order.Code))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
