package usecase

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
	"github.com/aquadesk/aquadesk/internal/schedule"
)

// RuleUseCase owns recurrence rule administration: creation and updates
// normalize the time-of-day and keep next_run consistent with the schedule
// fields.
type RuleUseCase struct {
	rules     repository.RuleRepository
	customers repository.CustomerRepository
	calc      *schedule.Calculator
	now       func() time.Time
}

// NewRuleUseCase constructs RuleUseCase.
func NewRuleUseCase(rules repository.RuleRepository, customers repository.CustomerRepository, calc *schedule.Calculator) *RuleUseCase {
	return &RuleUseCase{rules: rules, customers: customers, calc: calc, now: time.Now}
}

// Create validates, normalizes and persists a new rule with its first
// next_run computed from the current instant.
func (u *RuleUseCase) Create(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	if !model.ValidRuleType(rule.Type) {
		return nil, domainErrors.ErrValidation
	}
	if _, err := u.customers.GetByID(ctx, rule.CustomerID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrCustomerNotFound
		}
		return nil, err
	}

	u.normalize(rule)
	next := u.calc.NextRun(rule, u.now())
	rule.NextRun = &next

	return u.rules.Create(ctx, rule)
}

// Update applies schedule or payload changes. next_run is recomputed only
// when a schedule field (type, days, date, time) actually changed, so
// payload-only edits never shift the cadence.
func (u *RuleUseCase) Update(ctx context.Context, id int64, updated *model.RecurrenceRule) (*model.RecurrenceRule, error) {
	if !model.ValidRuleType(updated.Type) {
		return nil, domainErrors.ErrValidation
	}

	current, err := u.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.normalize(updated)
	scheduleChanged := current.Type != updated.Type ||
		current.Date != updated.Date ||
		current.Time != updated.Time ||
		!equalDays(current.Days, updated.Days)

	current.Type = updated.Type
	current.Days = updated.Days
	current.Date = updated.Date
	current.Time = updated.Time
	if updated.Cans > 0 {
		current.Cans = updated.Cans
	}
	if updated.Priority != "" {
		current.Priority = updated.Priority
	}

	if scheduleChanged {
		next := u.calc.NextRun(current, u.now())
		current.NextRun = &next
	}

	if err := u.rules.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes a rule.
func (u *RuleUseCase) Delete(ctx context.Context, id int64) error {
	return u.rules.Delete(ctx, id)
}

// Get fetches a rule by id.
func (u *RuleUseCase) Get(ctx context.Context, id int64) (*model.RecurrenceRule, error) {
	return u.rules.GetByID(ctx, id)
}

// List returns all rules.
func (u *RuleUseCase) List(ctx context.Context) ([]model.RecurrenceRule, error) {
	return u.rules.List(ctx)
}

// Advance moves a rule past its current occurrence without firing it,
// stamping last_triggered_at. Used by external trigger actors that created
// the delivery themselves. one_time rules are deleted, since they have no
// next occurrence; the returned rule is nil in that case.
func (u *RuleUseCase) Advance(ctx context.Context, id int64) (*model.RecurrenceRule, error) {
	rule, err := u.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if rule.Type == model.RuleOneTime {
		if err := u.rules.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	now := u.now()
	next := u.calc.Advance(rule, now)
	if err := u.rules.UpdateSchedule(ctx, id, next, &now); err != nil {
		return nil, err
	}
	rule.NextRun = next
	rule.LastTriggeredAt = &now
	return rule, nil
}

func (u *RuleUseCase) normalize(rule *model.RecurrenceRule) {
	rule.Time = schedule.NormalizeTimeOfDay(rule.Time)
	rule.Days = schedule.SortedDays(rule.Days)
	if rule.Type != model.RuleWeekly {
		rule.Days = []int{}
	}
	if rule.Type != model.RuleOneTime {
		rule.Date = ""
	}
	if rule.Cans <= 0 {
		rule.Cans = 1
	}
	if rule.Priority != model.PriorityUrgent {
		rule.Priority = model.PriorityNormal
	}
}

func equalDays(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
