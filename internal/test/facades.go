package test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// CustomerFacadeStub implements handlers.CustomerFacade with overridable hooks.
type CustomerFacadeStub struct {
	CreateFn func(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetFn    func(ctx context.Context, id int64) (*model.Customer, error)
	ListFn   func(ctx context.Context) ([]model.Customer, error)
}

func (s CustomerFacadeStub) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customer)
	}
	customer.ID = 1
	return customer, nil
}

func (s CustomerFacadeStub) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Customer{ID: id, Name: "stub", Address: "stub"}, nil
}

func (s CustomerFacadeStub) Customers(ctx context.Context) ([]model.Customer, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

// RuleFacadeStub implements handlers.RuleFacade with overridable hooks and a
// tick counter for the opportunistic trigger.
type RuleFacadeStub struct {
	CreateFn  func(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error)
	ListFn    func(ctx context.Context) ([]model.RecurrenceRule, error)
	UpdateFn  func(ctx context.Context, id int64, rule *model.RecurrenceRule) (*model.RecurrenceRule, error)
	DeleteFn  func(ctx context.Context, id int64) error
	AdvanceFn func(ctx context.Context, id int64) (*model.RecurrenceRule, error)

	Ticks *atomic.Int64
}

func (s RuleFacadeStub) CreateRule(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, rule)
	}
	rule.ID = 1
	return rule, nil
}

func (s RuleFacadeStub) Rules(ctx context.Context) ([]model.RecurrenceRule, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

func (s RuleFacadeStub) UpdateRule(ctx context.Context, id int64, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, rule)
	}
	rule.ID = id
	return rule, nil
}

func (s RuleFacadeStub) DeleteRule(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s RuleFacadeStub) AdvanceRule(ctx context.Context, id int64) (*model.RecurrenceRule, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, id)
	}
	next := time.Now().Add(24 * time.Hour)
	return &model.RecurrenceRule{ID: id, Type: model.RuleDaily, NextRun: &next}, nil
}

func (s RuleFacadeStub) TriggerSweepNow() {
	if s.Ticks != nil {
		s.Ticks.Add(1)
	}
}

// RequestFacadeStub implements handlers.RequestFacade with overridable hooks.
type RequestFacadeStub struct {
	CreateFn     func(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error)
	ListFn       func(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error)
	TransitionFn func(ctx context.Context, id int64, target model.RequestStatus) (*model.DeliveryRequest, error)
	CancelFn     func(ctx context.Context, id int64, actor model.CancelActor, reason, notes string) (*model.DeliveryRequest, error)

	Ticks *atomic.Int64
}

func (s RequestFacadeStub) CreateRequest(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customerID, cans, priority)
	}
	return &model.DeliveryRequest{ID: 1, CustomerID: customerID, Cans: cans, Priority: priority, Status: model.StatusPending}, nil
}

func (s RequestFacadeStub) Requests(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, status)
	}
	return nil, nil
}

func (s RequestFacadeStub) TransitionRequest(ctx context.Context, id int64, target model.RequestStatus) (*model.DeliveryRequest, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, id, target)
	}
	return &model.DeliveryRequest{ID: id, Status: target}, nil
}

func (s RequestFacadeStub) CancelRequest(ctx context.Context, id int64, actor model.CancelActor, reason, notes string) (*model.DeliveryRequest, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id, actor, reason, notes)
	}
	return &model.DeliveryRequest{ID: id, Status: model.StatusCancelled, CancelledBy: actor, CancellationReason: reason, CancellationNotes: notes}, nil
}

func (s RequestFacadeStub) TriggerSweepNow() {
	if s.Ticks != nil {
		s.Ticks.Add(1)
	}
}

// OpsFacadeStub implements handlers.OpsFacade.
type OpsFacadeStub struct {
	PingFn func(ctx context.Context) error

	Ticks *atomic.Int64
}

func (s OpsFacadeStub) TriggerSweepNow() {
	if s.Ticks != nil {
		s.Ticks.Add(1)
	}
}

func (s OpsFacadeStub) Ping(ctx context.Context) error {
	if s.PingFn != nil {
		return s.PingFn(ctx)
	}
	return nil
}

// DispatchFacadeStub aggregates the per-handler stubs into the full facade
// surface used by the router.
type DispatchFacadeStub struct {
	CustomerFacadeStub
	RuleFacadeStub
	RequestFacadeStub
	OpsFacadeStub
}

// TriggerSweepNow resolves the embedding ambiguity; all tick counters fire.
func (s DispatchFacadeStub) TriggerSweepNow() {
	s.RuleFacadeStub.TriggerSweepNow()
	s.RequestFacadeStub.TriggerSweepNow()
	s.OpsFacadeStub.TriggerSweepNow()
}
