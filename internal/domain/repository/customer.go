package repository

import (
	"context"

	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// CustomerRepository describes persistence operations with customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
}
