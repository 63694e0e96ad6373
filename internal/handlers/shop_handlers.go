package handlers

import (
	"net/http"

	"shopdesk/internal/common"
	"shopdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// ShopHandlers serves the public storefront catalog.
type ShopHandlers struct {
	productService services.ProductService
}

func NewShopHandlers(productService services.ProductService) *ShopHandlers {
	return &ShopHandlers{productService: productService}
}

// ListProducts handles GET /shop/products
func (h *ShopHandlers) ListProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	// storefront callers cannot filter on internal fields
	filter.SupplierID = nil
	filter.LowStockOnly = false

	products, err := h.productService.ListShopProducts(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse("products", products, filter.Limit, filter.Offset))
}

// GetProduct handles GET /shop/products/:id
func (h *ShopHandlers) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if product.IsDiscontinued() {
		return common.SendNotFoundError(c, "product")
	}
	return c.JSON(http.StatusOK, product.ShopView())
}
