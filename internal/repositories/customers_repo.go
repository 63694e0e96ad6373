package repositories

import (
	"context"

	"shopdesk/internal/models"

	"github.com/google/uuid"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Customer, error)
}

type customerRepo struct {
	parties *partyTable
}

func NewCustomerRepository(db DB) CustomerRepository {
	return &customerRepo{parties: &partyTable{db: db, table: "customers", resource: "customer"}}
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	return r.parties.create(ctx, &customer.Party)
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	party, err := r.parties.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.Customer{Party: *party}, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	return r.parties.update(ctx, &customer.Party)
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.parties.delete(ctx, id)
}

func (r *customerRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.parties.exists(ctx, id)
}

func (r *customerRepo) Search(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Customer, error) {
	parties, err := r.parties.search(ctx, filter)
	if err != nil {
		return nil, err
	}
	customers := make([]*models.Customer, 0, len(parties))
	for _, p := range parties {
		customers = append(customers, &models.Customer{Party: *p})
	}
	return customers, nil
}
