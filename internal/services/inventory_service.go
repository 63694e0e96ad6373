package services

import (
	"context"
	"fmt"

	"shopdesk/internal/caching"
	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostMovementInput is a staff-initiated ledger entry.
type PostMovementInput struct {
	Type      models.MovementType
	ProductID uuid.UUID
	Quantity  int
	Note      *string
	Reference models.Reference
}

type InventoryService interface {
	PostMovement(ctx context.Context, input *PostMovementInput) (*models.InventoryMovement, error)
	// ApplyMovementTx applies and records a movement inside an existing transaction.
	// Callers are responsible for cache invalidation after commit.
	ApplyMovementTx(ctx context.Context, tx pgx.Tx, movement *models.InventoryMovement) error
	GetMovement(ctx context.Context, id uuid.UUID) (*models.InventoryMovement, error)
	ListMovements(ctx context.Context, filter *models.MovementSearchFilter) ([]*models.InventoryMovement, error)
}

type inventoryService struct {
	txManager    repositories.TxManager
	productRepo  repositories.ProductRepository
	movementRepo repositories.MovementRepository
	cacheService caching.CacheService
}

func NewInventoryService(txManager repositories.TxManager, productRepo repositories.ProductRepository, movementRepo repositories.MovementRepository, cacheService caching.CacheService) InventoryService {
	return &inventoryService{
		txManager:    txManager,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		cacheService: cacheService,
	}
}

func (s *inventoryService) PostMovement(ctx context.Context, input *PostMovementInput) (*models.InventoryMovement, error) {
	if !input.Type.Valid() {
		return nil, common.NewValidationError("type", "must be one of in, out, adjust")
	}
	if input.Quantity <= 0 {
		return nil, common.NewValidationError("quantity", "must be greater than zero")
	}
	if input.Quantity > maxLineQuantity {
		return nil, common.NewValidationError("quantity", fmt.Sprintf("cannot exceed %d", maxLineQuantity))
	}
	// order references are written by the order engine only
	if input.Reference.Kind == models.ReferenceOrder {
		return nil, common.NewValidationError("reference", "order references cannot be posted manually")
	}

	movement := &models.InventoryMovement{
		ID:        uuid.New(),
		Type:      input.Type,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Reference: input.Reference,
		Note:      input.Note,
	}

	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		return s.ApplyMovementTx(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	if movement.Type != models.MovementAdjust {
		invalidateProducts(ctx, s.cacheService, movement.ProductID)
	}
	return movement, nil
}

func (s *inventoryService) ApplyMovementTx(ctx context.Context, tx pgx.Tx, movement *models.InventoryMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}

	switch movement.Type {
	case models.MovementIn:
		after, err := s.productRepo.IncreaseStockTx(ctx, tx, movement.ProductID, movement.Quantity)
		if err != nil {
			return err
		}
		movement.StockBefore, movement.StockAfter = after-movement.Quantity, after
	case models.MovementOut:
		after, err := s.productRepo.DecreaseStockTx(ctx, tx, movement.ProductID, movement.Quantity)
		if err != nil {
			return err
		}
		movement.StockBefore, movement.StockAfter = after+movement.Quantity, after
	case models.MovementAdjust:
		current, err := s.productRepo.CurrentStockTx(ctx, tx, movement.ProductID)
		if err != nil {
			return err
		}
		movement.StockBefore, movement.StockAfter = current, current
	default:
		return common.NewValidationError("type", "must be one of in, out, adjust")
	}

	return s.movementRepo.CreateTx(ctx, tx, movement)
}

func (s *inventoryService) GetMovement(ctx context.Context, id uuid.UUID) (*models.InventoryMovement, error) {
	return s.movementRepo.GetByID(ctx, id)
}

func (s *inventoryService) ListMovements(ctx context.Context, filter *models.MovementSearchFilter) ([]*models.InventoryMovement, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, common.NewValidationError("type", "must be one of in, out, adjust")
	}
	return s.movementRepo.Search(ctx, filter)
}
