package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"shopdesk/internal/caching"
	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// maxLineQuantity bounds a single order line or ledger movement; stock columns are int4.
const maxLineQuantity = 1_000_000

// StockEventPublisher hands stock changes to background consumers.
type StockEventPublisher interface {
	PublishStockCheck(ctx context.Context, orderID uuid.UUID, orderCode string, productIDs []uuid.UUID) error
}

type CreateOrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *int64 // nil snapshots the catalog price
}

type CreateOrderInput struct {
	CustomerID uuid.UUID
	Items      []CreateOrderItemInput
	Note       *string
}

// StatusChangeOptions tunes a status transition.
type StatusChangeOptions struct {
	// Restock posts an in movement per line when a confirmed order is canceled.
	Restock bool
}

// OrderServiceInterface defines the interface for order service operations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus, opts StatusChangeOptions) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	txManager        repositories.TxManager
	orderRepo        repositories.OrderRepository
	orderItemRepo    repositories.OrderItemRepository
	productRepo      repositories.ProductRepository
	customerRepo     repositories.CustomerRepository
	inventoryService InventoryService
	cacheService     caching.CacheService
	publisher        StockEventPublisher
}

// NewOrderService creates a new order service instance
func NewOrderService(
	txManager repositories.TxManager,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	inventoryService InventoryService,
	cacheService caching.CacheService,
	publisher StockEventPublisher,
) OrderServiceInterface {
	return &orderService{
		txManager:        txManager,
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		productRepo:      productRepo,
		customerRepo:     customerRepo,
		inventoryService: inventoryService,
		cacheService:     cacheService,
		publisher:        publisher,
	}
}

func validateOrderInput(input *CreateOrderInput) error {
	if input.CustomerID == uuid.Nil {
		return common.NewValidationError("customer_id", "is required")
	}
	if len(input.Items) == 0 {
		return common.NewValidationError("items", "at least one item is required")
	}
	for i, item := range input.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID == uuid.Nil {
			return common.NewValidationError(field+".product_id", "is required")
		}
		if item.Quantity <= 0 {
			return common.NewValidationError(field+".quantity", "must be greater than zero")
		}
		if item.Quantity > maxLineQuantity {
			return common.NewValidationError(field+".quantity", fmt.Sprintf("cannot exceed %d", maxLineQuantity))
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return common.NewValidationError(field+".unit_price", "cannot be negative")
		}
	}
	return nil
}

// CreateOrder persists a draft order and its lines in one transaction. Stock is
// untouched until the order is confirmed.
func (s *orderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	exists, err := s.customerRepo.Exists(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NotFound("customer", input.CustomerID)
	}

	if input.Note != nil {
		note := strings.TrimSpace(*input.Note)
		input.Note = &note
	}

	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		Status:     models.OrderStatusDraft,
		Note:       input.Note,
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		products, err := s.productRepo.GetByIDsTx(ctx, tx, distinctProductIDs(input.Items))
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for i, line := range input.Items {
			product, ok := products[line.ProductID]
			if !ok {
				return common.NotFound("product", line.ProductID)
			}
			price := product.Price
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			items = append(items, models.OrderItem{
				ID:          uuid.New(),
				OrderID:     order.ID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitPrice:   price,
				Position:    i,
				SKU:         product.SKU,
				ProductName: product.Name,
			})
		}
		order.Items = items
		if order.Total, err = orderTotal(items); err != nil {
			return err
		}

		code, err := s.orderRepo.NextCodeTx(ctx, tx)
		if err != nil {
			return err
		}
		order.Code = code

		if err := s.orderRepo.CreateTx(ctx, tx, order); err != nil {
			return err
		}
		return s.orderItemRepo.CreateTx(ctx, tx, order.Items)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("order", order.Code).Int64("total", order.Total).Int("items", len(order.Items)).Msg("order created")
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderItemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListOrders returns order headers only; items are loaded by GetOrder.
func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, common.NewValidationError("status", "unknown order status")
	}
	return s.orderRepo.Search(ctx, filter)
}

// SetOrderStatus moves an order along the status whitelist. Confirmation reserves
// stock for every line or fails as a whole; cancellation optionally restocks.
func (s *orderService) SetOrderStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus, opts StatusChangeOptions) (*models.Order, error) {
	if !next.Valid() {
		return nil, common.NewValidationError("status", "unknown order status")
	}

	var (
		order   *models.Order
		touched []uuid.UUID
	)
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		order, err = s.orderRepo.GetForUpdateTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return common.InvalidState("cannot move order %s from %s to %s", order.Code, order.Status, next)
		}
		restock := opts.Restock && next == models.OrderStatusCanceled
		if restock && order.Status != models.OrderStatusConfirmed {
			return common.NewValidationError("restock", "only a confirmed order holds stock to return")
		}

		items, err := s.orderItemRepo.ListByOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		order.Items = items

		switch {
		case next == models.OrderStatusConfirmed:
			if touched, err = s.postOrderMovements(ctx, tx, order, models.MovementOut); err != nil {
				return err
			}
		case restock:
			if touched, err = s.postOrderMovements(ctx, tx, order, models.MovementIn); err != nil {
				return err
			}
		}

		order.UpdatedAt, err = s.orderRepo.UpdateStatusTx(ctx, tx, orderID, next)
		return err
	})
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = next
	invalidateProducts(ctx, s.cacheService, touched...)

	log.Info().Str("order", order.Code).Str("from", string(previous)).Str("to", string(next)).
		Bool("restock", len(touched) > 0 && next == models.OrderStatusCanceled).Msg("order status changed")

	if next == models.OrderStatusConfirmed && s.publisher != nil {
		if err := s.publisher.PublishStockCheck(ctx, order.ID, order.Code, touched); err != nil {
			log.Warn().Err(err).Str("order", order.Code).Msg("failed to enqueue stock check")
		}
	}
	return order, nil
}

// postOrderMovements applies one movement per order line, in line order, and returns
// the distinct products it touched.
func (s *orderService) postOrderMovements(ctx context.Context, tx pgx.Tx, order *models.Order, movementType models.MovementType) ([]uuid.UUID, error) {
	note := "order " + order.Code
	for _, item := range order.Items {
		movement := &models.InventoryMovement{
			Type:      movementType,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Reference: models.OrderReference(order.ID),
			Note:      &note,
		}
		if err := s.inventoryService.ApplyMovementTx(ctx, tx, movement); err != nil {
			return nil, err
		}
	}
	return distinctItemProductIDs(order.Items), nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.orderRepo.DeleteDraft(ctx, orderID)
}

// orderTotal sums the line amounts, rejecting the first line that would push the
// total past int64.
func orderTotal(items []models.OrderItem) (int64, error) {
	var total int64
	for i, item := range items {
		qty := int64(item.Quantity)
		if item.UnitPrice > (math.MaxInt64-total)/qty {
			return 0, common.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "order total is too large")
		}
		total += qty * item.UnitPrice
	}
	return total, nil
}

func distinctProductIDs(lines []CreateOrderItemInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	return ids
}

func distinctItemProductIDs(items []models.OrderItem) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
