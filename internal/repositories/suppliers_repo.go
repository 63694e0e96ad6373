package repositories

import (
	"context"

	"shopdesk/internal/models"

	"github.com/google/uuid"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Supplier, error)
}

type supplierRepo struct {
	parties *partyTable
}

func NewSupplierRepository(db DB) SupplierRepository {
	return &supplierRepo{parties: &partyTable{db: db, table: "suppliers", resource: "supplier"}}
}

func (r *supplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.parties.create(ctx, &supplier.Party)
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	party, err := r.parties.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.Supplier{Party: *party}, nil
}

func (r *supplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.parties.update(ctx, &supplier.Party)
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.parties.delete(ctx, id)
}

func (r *supplierRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.parties.exists(ctx, id)
}

func (r *supplierRepo) Search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Supplier, error) {
	parties, err := r.parties.search(ctx, filter)
	if err != nil {
		return nil, err
	}
	suppliers := make([]*models.Supplier, 0, len(parties))
	for _, p := range parties {
		suppliers = append(suppliers, &models.Supplier{Party: *p})
	}
	return suppliers, nil
}
