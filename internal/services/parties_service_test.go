package services

import (
	"context"
	"testing"

	"shopdesk/internal/common"
	"shopdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_CreateTrimsName(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)
	ctx := context.Background()

	customer := &models.Customer{Party: models.Party{Name: "  Ana Lima  "}}
	repo.On("Create", ctx, customer).Return(nil)

	require.NoError(t, service.Create(ctx, customer))
	assert.Equal(t, "Ana Lima", customer.Name)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	repo.AssertExpectations(t)
}

func TestCustomerService_BlankNameRejected(t *testing.T) {
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)

	err := service.Create(context.Background(), &models.Customer{Party: models.Party{Name: "   "}})
	assert.ErrorIs(t, err, common.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSupplierService_DeleteStillReferenced(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("Delete", ctx, id).Return(common.InvalidState("supplier is still referenced"))

	err := service.Delete(ctx, id)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestSupplierService_UpdateValidates(t *testing.T) {
	repo := new(MockSupplierRepository)
	service := NewSupplierService(repo)

	err := service.Update(context.Background(), &models.Supplier{Party: models.Party{ID: uuid.New()}})
	assert.ErrorIs(t, err, common.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
