package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"shopdesk/internal/caching"
	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const productCacheTTL = 15 * time.Minute

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product, discontinued bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	ListShopProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]models.ShopProduct, error)
	UploadProductImage(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*models.Product, error)
	GetProductImageURL(ctx context.Context, productID uuid.UUID, expiry time.Duration) (string, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	supplierRepo repositories.SupplierRepository
	minioService MinioService
	cacheService caching.CacheService
	bucket       string
}

func NewProductService(productRepo repositories.ProductRepository, supplierRepo repositories.SupplierRepository, minioService MinioService, cacheService caching.CacheService, bucket string) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		minioService: minioService,
		cacheService: cacheService,
		bucket:       bucket,
	}
}

func validateProduct(product *models.Product) error {
	product.SKU = strings.TrimSpace(product.SKU)
	product.Name = strings.TrimSpace(product.Name)
	switch {
	case product.SKU == "":
		return common.NewValidationError("sku", "is required")
	case product.Name == "":
		return common.NewValidationError("name", "is required")
	case product.Price < 0:
		return common.NewValidationError("price", "cannot be negative")
	case product.Cost < 0:
		return common.NewValidationError("cost", "cannot be negative")
	case product.MinStockLevel < 0:
		return common.NewValidationError("min_stock_level", "cannot be negative")
	}
	return nil
}

func (s *productService) checkSupplier(ctx context.Context, supplierID *uuid.UUID) error {
	if supplierID == nil {
		return nil
	}
	ok, err := s.supplierRepo.Exists(ctx, *supplierID)
	if err != nil {
		return err
	}
	if !ok {
		return common.NotFound("supplier", *supplierID)
	}
	return nil
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.Stock < 0 {
		return common.NewValidationError("stock", "cannot be negative")
	}
	if err := s.checkSupplier(ctx, product.SupplierID); err != nil {
		return err
	}

	product.ID = uuid.New()
	product.Status = models.DeriveProductStatus(product.Stock, false)
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache read failed")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetProduct(ctx, product, productCacheTTL); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache write failed")
	}
	return product, nil
}

// Update replaces the editable fields of a product, including a manual stock edit.
// Status is derived from the new stock and the discontinued flag.
func (s *productService) Update(ctx context.Context, product *models.Product, discontinued bool) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.checkSupplier(ctx, product.SupplierID); err != nil {
		return err
	}

	product.Status = models.DeriveProductStatus(product.Stock, discontinued)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	invalidateProducts(ctx, s.cacheService, product.ID)
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateProducts(ctx, s.cacheService, id)
	return nil
}

func (s *productService) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	return s.productRepo.AdvancedSearch(ctx, filter)
}

func (s *productService) ListShopProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]models.ShopProduct, error) {
	filter.ExcludeDiscontinued = true
	products, err := s.productRepo.AdvancedSearch(ctx, filter)
	if err != nil {
		return nil, err
	}
	shop := make([]models.ShopProduct, 0, len(products))
	for _, p := range products {
		shop = append(shop, p.ShopView())
	}
	return shop, nil
}

func (s *productService) UploadProductImage(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*models.Product, error) {
	current, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	var previousKey string
	if current.ImageKey != nil {
		previousKey = *current.ImageKey
	}

	objectKey := fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), strings.ToLower(filepath.Ext(filename)))

	if err := s.minioService.EnsureBucketExists(ctx, s.bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}
	if err := s.minioService.UploadImage(ctx, s.bucket, objectKey, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload image to storage: %w", err)
	}
	if err := s.productRepo.SetImageKey(ctx, productID, objectKey); err != nil {
		return nil, err
	}
	invalidateProducts(ctx, s.cacheService, productID)

	// the replaced object is only garbage once the new key is stored
	if previousKey != "" {
		if err := s.minioService.DeleteImage(ctx, s.bucket, previousKey); err != nil {
			log.Warn().Err(err).Str("object", previousKey).Msg("failed to remove replaced product image")
		}
	}

	return s.productRepo.GetByID(ctx, productID)
}

func (s *productService) GetProductImageURL(ctx context.Context, productID uuid.UUID, expiry time.Duration) (string, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	if product.ImageKey == nil {
		return "", common.NotFound("product image", productID)
	}

	url, err := s.minioService.GetPresignedURL(ctx, s.bucket, *product.ImageKey, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

// invalidateProducts drops cached product entries. Failures are logged only; the
// entries expire on their own.
func invalidateProducts(ctx context.Context, cache caching.CacheService, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if err := cache.DeleteProducts(ctx, ids...); err != nil {
		log.Warn().Err(err).Int("products", len(ids)).Msg("product cache invalidation failed")
	}
}
