package app

import (
	"context"
	"time"

	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/usecase"
)

// Pinger reports storage health.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// SweepTrigger fires an immediate sweep tick.
type SweepTrigger interface {
	TriggerNow()
}

// DispatchFacade aggregates the operations exposed over HTTP and consumed by
// the scheduler driver. It also implements worker.SweepRunner.
type DispatchFacade struct {
	customers *usecase.CustomerUseCase
	rules     *usecase.RuleUseCase
	requests  *usecase.RequestUseCase
	sweep     *usecase.SweepUseCase
	storage   Pinger

	trigger SweepTrigger
}

// NewDispatchFacade constructs DispatchFacade.
func NewDispatchFacade(
	customers *usecase.CustomerUseCase,
	rules *usecase.RuleUseCase,
	requests *usecase.RequestUseCase,
	sweep *usecase.SweepUseCase,
	storage Pinger,
) *DispatchFacade {
	return &DispatchFacade{customers: customers, rules: rules, requests: requests, sweep: sweep, storage: storage}
}

// BindTrigger attaches the scheduler driver after construction; the driver
// itself runs sweeps through this facade, so the two cannot be built in one
// step.
func (f *DispatchFacade) BindTrigger(trigger SweepTrigger) {
	f.trigger = trigger
}

func (f *DispatchFacade) CreateCustomer(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	return f.customers.Create(ctx, customer)
}

func (f *DispatchFacade) Customer(ctx context.Context, id int64) (*model.Customer, error) {
	return f.customers.Get(ctx, id)
}

func (f *DispatchFacade) Customers(ctx context.Context) ([]model.Customer, error) {
	return f.customers.List(ctx)
}

func (f *DispatchFacade) CreateRule(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	return f.rules.Create(ctx, rule)
}

func (f *DispatchFacade) Rules(ctx context.Context) ([]model.RecurrenceRule, error) {
	return f.rules.List(ctx)
}

func (f *DispatchFacade) UpdateRule(ctx context.Context, id int64, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	return f.rules.Update(ctx, id, rule)
}

func (f *DispatchFacade) DeleteRule(ctx context.Context, id int64) error {
	return f.rules.Delete(ctx, id)
}

func (f *DispatchFacade) AdvanceRule(ctx context.Context, id int64) (*model.RecurrenceRule, error) {
	return f.rules.Advance(ctx, id)
}

func (f *DispatchFacade) CreateRequest(ctx context.Context, customerID int64, cans int, priority model.RequestPriority) (*model.DeliveryRequest, error) {
	return f.requests.Create(ctx, customerID, cans, priority)
}

func (f *DispatchFacade) Requests(ctx context.Context, status model.RequestStatus) ([]model.DeliveryRequest, error) {
	return f.requests.List(ctx, status)
}

func (f *DispatchFacade) TransitionRequest(ctx context.Context, id int64, target model.RequestStatus) (*model.DeliveryRequest, error) {
	return f.requests.Transition(ctx, id, target)
}

func (f *DispatchFacade) CancelRequest(ctx context.Context, id int64, actor model.CancelActor, reason, notes string) (*model.DeliveryRequest, error) {
	return f.requests.Cancel(ctx, id, actor, reason, notes)
}

// Sweep satisfies worker.SweepRunner.
func (f *DispatchFacade) Sweep(ctx context.Context, now time.Time) {
	f.sweep.Sweep(ctx, now)
}

// TriggerSweepNow fires an immediate sweep tick if the driver is attached.
func (f *DispatchFacade) TriggerSweepNow() {
	if f.trigger != nil {
		f.trigger.TriggerNow()
	}
}

// Ping reports storage health.
func (f *DispatchFacade) Ping(ctx context.Context) error {
	return f.storage.HealthCheck(ctx)
}
