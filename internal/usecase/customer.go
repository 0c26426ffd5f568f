package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
)

// CustomerUseCase covers the customer data contract consumed by the
// scheduling engine: lookups for denormalized snapshots and minimal CRUD.
type CustomerUseCase struct {
	customers repository.CustomerRepository
}

// NewCustomerUseCase constructs CustomerUseCase.
func NewCustomerUseCase(customers repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customers: customers}
}

// Create registers a customer after basic field validation.
func (u *CustomerUseCase) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Address = strings.TrimSpace(customer.Address)
	if customer.Name == "" || customer.Address == "" {
		return nil, domainErrors.ErrValidation
	}
	if customer.PaymentType == "" {
		customer.PaymentType = model.PaymentCash
	}
	if customer.PricePerCan < 0 {
		return nil, domainErrors.ErrValidation
	}
	return u.customers.Create(ctx, customer)
}

// Get fetches a customer by id.
func (u *CustomerUseCase) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return u.customers.GetByID(ctx, id)
}

// List returns all customers.
func (u *CustomerUseCase) List(ctx context.Context) ([]model.Customer, error) {
	return u.customers.List(ctx)
}
