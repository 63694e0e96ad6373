package handlers

import (
	"net/http"
	"strings"
	"time"

	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	maxImageSize     = 5 << 20
	imageURLLifetime = 15 * time.Minute
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	SKU           string     `json:"sku" validate:"required,max=64"`
	Name          string     `json:"name" validate:"required,max=255"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	Price         int64      `json:"price" validate:"gte=0"`
	Cost          int64      `json:"cost" validate:"gte=0"`
	Stock         int        `json:"stock"`
	MinStockLevel int        `json:"min_stock_level" validate:"gte=0"`
	SupplierID    *uuid.UUID `json:"supplier_id"`
	Discontinued  bool       `json:"discontinued"`
}

func (r *productRequest) toModel() *models.Product {
	return &models.Product{
		SKU:           strings.TrimSpace(r.SKU),
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Price:         r.Price,
		Cost:          r.Cost,
		Stock:         r.Stock,
		MinStockLevel: r.MinStockLevel,
		SupplierID:    r.SupplierID,
	}
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product := req.toModel()
	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product := req.toModel()
	product.ID = id
	if err := h.productService.Update(c.Request().Context(), product, req.Discontinued); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseProductFilter(c echo.Context) (*models.ProductSearchFilter, error) {
	limit, offset, err := queryPage(c)
	if err != nil {
		return nil, err
	}
	filter := &models.ProductSearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Limit:     limit,
		Offset:    offset,
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.ProductStatus(raw)
		switch status {
		case models.ProductStatusAvailable, models.ProductStatusOutOfStock, models.ProductStatusDiscontinued:
			filter.Status = &status
		default:
			return nil, common.NewValidationError("status", "must be one of available, out_of_stock, discontinued")
		}
	}
	if filter.SupplierID, err = queryUUID(c, "supplier_id"); err != nil {
		return nil, err
	}
	if filter.LowStockOnly, err = queryBool(c, "low_stock"); err != nil {
		return nil, err
	}
	return filter, nil
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.productService.Search(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse("products", products, filter.Limit, filter.Offset))
}

// UploadProductImage handles POST /products/:id/image (multipart field "image")
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "is required")
	}
	if file.Size > maxImageSize {
		return common.SendValidationError(c, "image", "must be 5MB or smaller")
	}
	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return common.SendValidationError(c, "image", "must be a JPEG, PNG or WebP image")
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer src.Close()

	product, err := h.productService.UploadProductImage(c.Request().Context(), id, file.Filename, src, file.Size, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// GetProductImageURL handles GET /products/:id/image-url
func (h *ProductHandlers) GetProductImageURL(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	url, err := h.productService.GetProductImageURL(c.Request().Context(), id, imageURLLifetime)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"url":        url,
		"expires_in": int(imageURLLifetime.Seconds()),
	})
}
