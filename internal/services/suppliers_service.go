package services

import (
	"context"
	"strings"

	"shopdesk/internal/common"
	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Supplier, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
}

func NewSupplierService(supplierRepo repositories.SupplierRepository) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
	}
}

func (s *supplierService) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := validateParty(&supplier.Party); err != nil {
		return err
	}
	supplier.ID = uuid.New()
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

func (s *supplierService) Update(ctx context.Context, supplier *models.Supplier) error {
	if err := validateParty(&supplier.Party); err != nil {
		return err
	}
	return s.supplierRepo.Update(ctx, supplier)
}

// Delete fails with an invalid state error while products still reference the supplier.
func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}

func (s *supplierService) List(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Supplier, error) {
	return s.supplierRepo.Search(ctx, filter)
}

func validateParty(party *models.Party) error {
	party.Name = strings.TrimSpace(party.Name)
	if party.Name == "" {
		return common.NewValidationError("name", "is required")
	}
	return nil
}
