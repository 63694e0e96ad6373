package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProductServiceTestSuite struct {
	suite.Suite
	productRepo  *MockProductRepository
	supplierRepo *MockSupplierRepository
	minio        *MockMinioService
	cache        *MockCacheService
	service      ProductService
	ctx          context.Context
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.productRepo = new(MockProductRepository)
	suite.supplierRepo = new(MockSupplierRepository)
	suite.minio = new(MockMinioService)
	suite.cache = new(MockCacheService)
	suite.service = NewProductService(suite.productRepo, suite.supplierRepo, suite.minio, suite.cache, "product-images")
	suite.ctx = context.Background()
}

func (suite *ProductServiceTestSuite) TearDownTest() {
	suite.productRepo.AssertExpectations(suite.T())
	suite.supplierRepo.AssertExpectations(suite.T())
	suite.minio.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (suite *ProductServiceTestSuite) TestCreate_DerivesStatus() {
	cases := []struct {
		stock int
		want  models.ProductStatus
	}{
		{0, models.ProductStatusOutOfStock},
		{3, models.ProductStatusAvailable},
	}
	for _, tc := range cases {
		product := &models.Product{SKU: " A-1 ", Name: "Widget", Price: 100, Stock: tc.stock}
		suite.productRepo.On("Create", suite.ctx, product).Return(nil).Once()

		require.NoError(suite.T(), suite.service.Create(suite.ctx, product))
		assert.Equal(suite.T(), tc.want, product.Status)
		assert.Equal(suite.T(), "A-1", product.SKU)
		assert.NotEqual(suite.T(), uuid.Nil, product.ID)
	}
}

func (suite *ProductServiceTestSuite) TestCreate_UnknownSupplier() {
	supplierID := uuid.New()
	suite.supplierRepo.On("Exists", suite.ctx, supplierID).Return(false, nil)

	err := suite.service.Create(suite.ctx, &models.Product{SKU: "A-1", Name: "Widget", SupplierID: &supplierID})
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *ProductServiceTestSuite) TestCreate_Validation() {
	cases := []struct {
		product *models.Product
		field   string
	}{
		{&models.Product{Name: "Widget"}, "sku"},
		{&models.Product{SKU: "A-1"}, "name"},
		{&models.Product{SKU: "A-1", Name: "Widget", Price: -1}, "price"},
		{&models.Product{SKU: "A-1", Name: "Widget", Stock: -1}, "stock"},
		{&models.Product{SKU: "A-1", Name: "Widget", MinStockLevel: -1}, "min_stock_level"},
	}
	for _, tc := range cases {
		err := suite.service.Create(suite.ctx, tc.product)
		var validation *common.ValidationError
		require.True(suite.T(), errors.As(err, &validation), tc.field)
		assert.Equal(suite.T(), tc.field, validation.Field)
	}
}

func (suite *ProductServiceTestSuite) TestUpdate_DiscontinuedSticksRegardlessOfStock() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1", Name: "Widget", Stock: 40}
	suite.productRepo.On("Update", suite.ctx, product).Return(nil)
	suite.cache.On("DeleteProducts", suite.ctx, []uuid.UUID{product.ID}).Return(nil)

	require.NoError(suite.T(), suite.service.Update(suite.ctx, product, true))
	assert.Equal(suite.T(), models.ProductStatusDiscontinued, product.Status)
}

func (suite *ProductServiceTestSuite) TestUpdate_ManualStockEditRecomputesStatus() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1", Name: "Widget", Stock: 0}
	suite.productRepo.On("Update", suite.ctx, product).Return(nil)
	suite.cache.On("DeleteProducts", suite.ctx, []uuid.UUID{product.ID}).Return(nil)

	require.NoError(suite.T(), suite.service.Update(suite.ctx, product, false))
	assert.Equal(suite.T(), models.ProductStatusOutOfStock, product.Status)
}

func (suite *ProductServiceTestSuite) TestGetByID_CacheHit() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1"}
	suite.cache.On("GetProduct", suite.ctx, product.ID).Return(product, nil)

	got, err := suite.service.GetByID(suite.ctx, product.ID)
	require.NoError(suite.T(), err)
	assert.Same(suite.T(), product, got)
	suite.productRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetByID_CacheMissFillsCache() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1"}
	suite.cache.On("GetProduct", suite.ctx, product.ID).Return(nil, nil)
	suite.productRepo.On("GetByID", suite.ctx, product.ID).Return(product, nil)
	suite.cache.On("SetProduct", suite.ctx, product, productCacheTTL).Return(nil)

	got, err := suite.service.GetByID(suite.ctx, product.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "A-1", got.SKU)
}

func (suite *ProductServiceTestSuite) TestGetByID_CacheErrorFallsBackToDatabase() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1"}
	suite.cache.On("GetProduct", suite.ctx, product.ID).Return(nil, errors.New("redis down"))
	suite.productRepo.On("GetByID", suite.ctx, product.ID).Return(product, nil)
	suite.cache.On("SetProduct", suite.ctx, product, productCacheTTL).Return(errors.New("redis down"))

	got, err := suite.service.GetByID(suite.ctx, product.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), product.ID, got.ID)
}

func (suite *ProductServiceTestSuite) TestListShopProducts_HidesDiscontinued() {
	filter := &models.ProductSearchFilter{Query: "wid"}
	suite.productRepo.On("AdvancedSearch", suite.ctx, mock.MatchedBy(func(f *models.ProductSearchFilter) bool {
		return f.ExcludeDiscontinued
	})).Return([]*models.Product{
		{ID: uuid.New(), SKU: "A-1", Name: "Widget", Price: 100, Cost: 60, Stock: 0, Status: models.ProductStatusOutOfStock},
	}, nil)

	shop, err := suite.service.ListShopProducts(suite.ctx, filter)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), shop, 1)
	assert.False(suite.T(), shop[0].InStock)
	assert.Equal(suite.T(), int64(100), shop[0].Price)
}

func (suite *ProductServiceTestSuite) TestUploadProductImage() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1"}
	body := bytes.NewReader([]byte("png-bytes"))

	suite.productRepo.On("GetByID", suite.ctx, product.ID).Return(product, nil)
	suite.minio.On("EnsureBucketExists", suite.ctx, "product-images").Return(nil)
	suite.minio.On("UploadImage", suite.ctx, "product-images", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "products/"+product.ID.String()+"/") && strings.HasSuffix(key, ".png")
	}), body, int64(9), "image/png").Return(nil)
	suite.productRepo.On("SetImageKey", suite.ctx, product.ID, mock.AnythingOfType("string")).Return(nil)
	suite.cache.On("DeleteProducts", suite.ctx, []uuid.UUID{product.ID}).Return(nil)

	_, err := suite.service.UploadProductImage(suite.ctx, product.ID, "Photo.PNG", body, 9, "image/png")
	require.NoError(suite.T(), err)
}

func (suite *ProductServiceTestSuite) TestUploadProductImage_RemovesReplacedObject() {
	oldKey := "products/old.jpg"
	product := &models.Product{ID: uuid.New(), SKU: "A-1", ImageKey: &oldKey}
	body := bytes.NewReader([]byte("jpg"))

	suite.productRepo.On("GetByID", suite.ctx, product.ID).Return(product, nil)
	suite.minio.On("EnsureBucketExists", suite.ctx, "product-images").Return(nil)
	suite.minio.On("UploadImage", suite.ctx, "product-images", mock.AnythingOfType("string"), body, int64(3), "image/jpeg").Return(nil)
	suite.productRepo.On("SetImageKey", suite.ctx, product.ID, mock.AnythingOfType("string")).Return(nil)
	suite.cache.On("DeleteProducts", suite.ctx, []uuid.UUID{product.ID}).Return(nil)
	suite.minio.On("DeleteImage", suite.ctx, "product-images", oldKey).Return(errors.New("gone already"))

	_, err := suite.service.UploadProductImage(suite.ctx, product.ID, "new.jpg", body, 3, "image/jpeg")
	require.NoError(suite.T(), err)
	suite.minio.AssertCalled(suite.T(), "DeleteImage", suite.ctx, "product-images", oldKey)
}

func (suite *ProductServiceTestSuite) TestGetProductImageURL_NoImage() {
	product := &models.Product{ID: uuid.New(), SKU: "A-1"}
	suite.cache.On("GetProduct", suite.ctx, product.ID).Return(product, nil)

	_, err := suite.service.GetProductImageURL(suite.ctx, product.ID, 15*time.Minute)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *ProductServiceTestSuite) TestGetProductImageURL() {
	key := "products/x/y.png"
	product := &models.Product{ID: uuid.New(), SKU: "A-1", ImageKey: &key}
	suite.cache.On("GetProduct", suite.ctx, product.ID).Return(product, nil)
	suite.minio.On("GetPresignedURL", suite.ctx, "product-images", key, 15*time.Minute).Return("http://minio/signed", nil)

	url, err := suite.service.GetProductImageURL(suite.ctx, product.ID, 15*time.Minute)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "http://minio/signed", url)
}
