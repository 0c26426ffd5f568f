package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
	"github.com/aquadesk/aquadesk/internal/guard"
)

// RequestUseCase owns the delivery request lifecycle. Every creation path
// goes through the duplicate guard; status changes go through the workflow
// state machine.
type RequestUseCase struct {
	requests  repository.RequestRepository
	customers repository.CustomerRepository
	guard     *guard.Guard
	now       func() time.Time
}

// NewRequestUseCase constructs RequestUseCase.
func NewRequestUseCase(requests repository.RequestRepository, customers repository.CustomerRepository, g *guard.Guard) *RequestUseCase {
	return &RequestUseCase{requests: requests, customers: customers, guard: g, now: time.Now}
}

// Create makes a pending delivery request for the customer, snapshotting
// name, address and pricing so later customer edits never rewrite history.
func (u *RequestUseCase) Create(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error) {
	if err := u.guard.Reserve(ctx, customerID); err != nil {
		return nil, err
	}

	customer, err := u.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrCustomerNotFound
		}
		return nil, err
	}

	if cans <= 0 {
		cans = 1
	}
	if priority != model.PriorityUrgent {
		priority = model.PriorityNormal
	}

	request := &model.DeliveryRequest{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Address:      customer.Address,
		PricePerCan:  customer.PricePerCan,
		PaymentType:  customer.PaymentType,
		Cans:         cans,
		Priority:     priority,
		Status:       model.StatusPending,
	}
	// The storage constraint can still reject a concurrent winner here; the
	// repository surfaces that as the same duplicate outcome as the guard.
	return u.requests.Create(ctx, request)
}

// Get fetches a request by id.
func (u *RequestUseCase) Get(ctx context.Context, id int64) (*model.DeliveryRequest, error) {
	return u.requests.GetByID(ctx, id)
}

// List returns requests, optionally filtered by status.
func (u *RequestUseCase) List(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error) {
	return u.requests.List(ctx, status)
}

// Transition moves a request forward along the happy path
// (pending → processing → delivered). Terminal states reject any move.
func (u *RequestUseCase) Transition(ctx context.Context, id int64, target model.RequestStatus) (*model.DeliveryRequest, error) {
	if target == model.StatusCancelled {
		// Cancellation carries an actor and reason; it has its own entry point.
		return nil, &domainErrors.InvalidTransitionError{From: "", To: string(target)}
	}

	request, err := u.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanTransition(target) {
		return nil, &domainErrors.InvalidTransitionError{From: string(request.Status), To: string(target)}
	}

	request.Status = target
	if target == model.StatusDelivered {
		now := u.now()
		request.DeliveredAt = &now
		request.CompletedAt = &now
	}

	if err := u.requests.UpdateStatus(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Cancel aborts a non-terminal request, recording who did it and why.
func (u *RequestUseCase) Cancel(ctx context.Context, id int64, actor model.CancelActor, reason, notes string) (*model.DeliveryRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || !model.ValidActor(actor) {
		return nil, domainErrors.ErrValidation
	}

	request, err := u.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanTransition(model.StatusCancelled) {
		return nil, &domainErrors.InvalidTransitionError{From: string(request.Status), To: string(model.StatusCancelled)}
	}

	now := u.now()
	request.Status = model.StatusCancelled
	request.CancelledAt = &now
	request.CompletedAt = &now
	request.CancelledBy = actor
	request.CancellationReason = reason
	request.CancellationNotes = strings.TrimSpace(notes)

	if err := u.requests.UpdateStatus(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}
