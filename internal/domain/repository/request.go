package repository

import (
	"context"

	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// RequestRepository describes persistence operations with delivery requests.
//
// Create is the authoritative enforcement point of the one-active-request
// invariant: the backing store must reject a second active request for the
// same customer and the implementation must surface that rejection as
// a *errors.DuplicateActiveRequestError.
type RequestRepository interface {
	Create(ctx context.Context, request *model.DeliveryRequest) (*model.DeliveryRequest, error)
	GetByID(ctx context.Context, id int64) (*model.DeliveryRequest, error)
	// ActiveForCustomer returns the customer's active request, or
	// errors.ErrNotFound when none exists.
	ActiveForCustomer(ctx context.Context, customerID int64) (*model.DeliveryRequest, error)
	List(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error)
	UpdateStatus(ctx context.Context, request *model.DeliveryRequest) error
}
