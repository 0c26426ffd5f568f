package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/guard"
	"github.com/aquadesk/aquadesk/internal/schedule"
	"github.com/aquadesk/aquadesk/internal/test"
	"github.com/aquadesk/aquadesk/internal/usecase"
)

type pingerStub struct {
	err error
}

func (p pingerStub) HealthCheck(context.Context) error { return p.err }

type triggerStub struct {
	calls int
}

func (t *triggerStub) TriggerNow() { t.calls++ }

func newTestFacade(t *testing.T) (*DispatchFacade, *test.CustomerRepositoryStub, *test.RuleRepositoryStub, *test.RequestRepositoryStub) {
	t.Helper()
	customers := test.NewCustomerRepositoryStub()
	rules := test.NewRuleRepositoryStub()
	requests := test.NewRequestRepositoryStub()
	g := guard.New(requests, guard.NewRateLimiter(time.Nanosecond))
	calc := schedule.NewCalculator(0)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	facade := NewDispatchFacade(
		usecase.NewCustomerUseCase(customers),
		usecase.NewRuleUseCase(rules, customers, calc),
		usecase.NewRequestUseCase(requests, customers, g),
		usecase.NewSweepUseCase(rules, requests, customers, g, calc, logger, time.Second),
		pingerStub{},
	)
	return facade, customers, rules, requests
}

func TestFacadeDelegatesToUseCases(t *testing.T) {
	facade, customers, _, _ := newTestFacade(t)
	ctx := context.Background()

	created, err := facade.CreateCustomer(ctx, &model.Customer{Name: "Bashir", Address: "12 Canal Road"})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	rule, err := facade.CreateRule(ctx, &model.RecurrenceRule{
		CustomerID: created.ID,
		Type:       model.RuleDaily,
		Time:       "09:00",
		Cans:       2,
	})
	if err != nil {
		t.Fatalf("create rule failed: %v", err)
	}
	if rule.NextRun == nil {
		t.Fatal("rule next run not computed")
	}

	request, err := facade.CreateRequest(ctx, created.ID, 1, model.PriorityNormal)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if request.CustomerName != "Bashir" {
		t.Fatalf("customer snapshot missing: %+v", request)
	}

	listed, err := facade.Customers(ctx)
	if err != nil || len(listed) != 1 {
		t.Fatalf("customers = %v, %v", listed, err)
	}
	_ = customers
}

func TestFacadeSweepMaterializesDueRules(t *testing.T) {
	facade, customers, rules, requests := newTestFacade(t)
	customer := customers.Add("Bashir", "12 Canal Road")

	due := time.Now().Add(-time.Hour)
	rules.Add(&model.RecurrenceRule{
		CustomerID: customer.ID,
		Type:       model.RuleDaily,
		Time:       "09:00",
		Cans:       1,
		NextRun:    &due,
	})

	facade.Sweep(context.Background(), time.Now().UTC())

	pending, err := requests.List(context.Background(), model.StatusPending)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending = %v, %v", pending, err)
	}
}

func TestFacadeTriggerSweepNow(t *testing.T) {
	facade, _, _, _ := newTestFacade(t)

	// No driver bound yet: must be a harmless no-op.
	facade.TriggerSweepNow()

	trigger := &triggerStub{}
	facade.BindTrigger(trigger)
	facade.TriggerSweepNow()
	if trigger.calls != 1 {
		t.Fatalf("trigger calls = %d, want 1", trigger.calls)
	}
}

func TestFacadePing(t *testing.T) {
	facade, _, _, _ := newTestFacade(t)
	if err := facade.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing := NewDispatchFacade(nil, nil, nil, nil, pingerStub{err: errors.New("down")})
	if err := failing.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
