package services

import (
	"context"
	"io"
	"time"

	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// passthroughTx runs the unit of work without a database. Repository mocks ignore
// the nil tx they receive.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	p.calls++
	return fn(nil)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) SetImageKey(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockProductRepository) AdvancedSearch(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDsTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Product), args.Error(1)
}

func (m *MockProductRepository) IncreaseStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, tx, id, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) DecreaseStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (int, error) {
	args := m.Called(ctx, tx, id, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) CurrentStockTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
	args := m.Called(ctx, tx, id)
	return args.Int(0), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) Search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Supplier), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Customer), args.Error(1)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) CreateTx(ctx context.Context, tx pgx.Tx, movement *models.InventoryMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryMovement), args.Error(1)
}

func (m *MockMovementRepository) Search(ctx context.Context, filter *models.MovementSearchFilter) ([]*models.InventoryMovement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.InventoryMovement), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) NextCodeTx(ctx context.Context, tx pgx.Tx) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) CreateTx(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status models.OrderStatus) (time.Time, error) {
	args := m.Called(ctx, tx, id, status)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockOrderRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Search(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) CreateTx(ctx context.Context, tx pgx.Tx, items []models.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) ListByOrderTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]models.OrderItem, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProducts(ctx context.Context, productIDs ...uuid.UUID) error {
	args := m.Called(ctx, productIDs)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockMinioService) CheckBucket(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type MockStockEventPublisher struct {
	mock.Mock
}

func (m *MockStockEventPublisher) PublishStockCheck(ctx context.Context, orderID uuid.UUID, orderCode string, productIDs []uuid.UUID) error {
	args := m.Called(ctx, orderID, orderCode, productIDs)
	return args.Error(0)
}

func stringPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}
