package services

import (
	"context"

	"shopdesk/internal/models"
	"shopdesk/internal/repositories"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) Create(ctx context.Context, customer *models.Customer) error {
	if err := validateParty(&customer.Party); err != nil {
		return err
	}
	customer.ID = uuid.New()
	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, customer *models.Customer) error {
	if err := validateParty(&customer.Party); err != nil {
		return err
	}
	return s.customerRepo.Update(ctx, customer)
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}

func (s *customerService) List(ctx context.Context, filter *models.PartySearchFilter) ([]*models.Customer, error) {
	return s.customerRepo.Search(ctx, filter)
}
