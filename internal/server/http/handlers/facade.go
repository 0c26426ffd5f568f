package handlers

import (
	"context"

	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// CustomerFacade covers customer record operations.
type CustomerFacade interface {
	CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Customer(ctx context.Context, id int64) (*model.Customer, error)
	Customers(ctx context.Context) ([]model.Customer, error)
}

// RuleFacade covers recurrence rule administration.
type RuleFacade interface {
	CreateRule(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error)
	Rules(ctx context.Context) ([]model.RecurrenceRule, error)
	UpdateRule(ctx context.Context, id int64, rule *model.RecurrenceRule) (*model.RecurrenceRule, error)
	DeleteRule(ctx context.Context, id int64) error
	AdvanceRule(ctx context.Context, id int64) (*model.RecurrenceRule, error)
	TriggerSweepNow()
}

// RequestFacade covers the delivery request lifecycle.
type RequestFacade interface {
	CreateRequest(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error)
	Requests(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error)
	TransitionRequest(ctx context.Context, id int64, target model.RequestStatus) (*model.DeliveryRequest, error)
	CancelRequest(ctx context.Context, id int64, actor model.CancelActor, reason, notes string) (*model.DeliveryRequest, error)
	TriggerSweepNow()
}

// OpsFacade covers the operational endpoints.
type OpsFacade interface {
	TriggerSweepNow()
	Ping(ctx context.Context) error
}

// DispatchFacade aggregates the full set of operations used across handlers.
type DispatchFacade interface {
	CustomerFacade
	RuleFacade
	RequestFacade
	OpsFacade
}
