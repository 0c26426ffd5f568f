package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
	"github.com/aquadesk/aquadesk/internal/guard"
	"github.com/aquadesk/aquadesk/internal/schedule"
)

// DebounceWindow suppresses re-firing a rule that was already triggered
// moments ago by an overlapping sweep.
const DebounceWindow = 5 * time.Minute

// SweepUseCase materializes delivery requests from due recurrence rules.
// Safe to run concurrently with itself and with manual creation: the guard
// and the storage unique constraint carry correctness, not any in-process
// lock.
type SweepUseCase struct {
	rules       repository.RuleRepository
	requests    repository.RequestRepository
	customers   repository.CustomerRepository
	guard       *guard.Guard
	calc        *schedule.Calculator
	logger      *slog.Logger
	ruleTimeout time.Duration
}

// NewSweepUseCase constructs SweepUseCase.
func NewSweepUseCase(
	rules repository.RuleRepository,
	requests repository.RequestRepository,
	customers repository.CustomerRepository,
	g *guard.Guard,
	calc *schedule.Calculator,
	logger *slog.Logger,
	ruleTimeout time.Duration,
) *SweepUseCase {
	if ruleTimeout <= 0 {
		ruleTimeout = 10 * time.Second
	}
	return &SweepUseCase{
		rules:       rules,
		requests:    requests,
		customers:   customers,
		guard:       g,
		calc:        calc,
		logger:      logger,
		ruleTimeout: ruleTimeout,
	}
}

// Sweep processes every rule due at the reference instant, in next_run
// order. A failure on one rule never aborts the rest.
func (s *SweepUseCase) Sweep(ctx context.Context, now time.Time) {
	due, err := s.rules.Due(ctx, now)
	if err != nil {
		s.logger.Error("fetch due rules failed", slog.String("error", err.Error()))
		return
	}

	for _, rule := range due {
		ruleCtx, cancel := context.WithTimeout(ctx, s.ruleTimeout)
		err := s.processRule(ruleCtx, &rule, now)
		cancel()
		if err != nil {
			s.logger.Error("rule sweep failed",
				slog.Int64("rule_id", rule.ID),
				slog.Int64("customer_id", rule.CustomerID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *SweepUseCase) processRule(ctx context.Context, rule *model.RecurrenceRule, now time.Time) error {
	if s.debounced(rule, now) {
		s.logger.Info("rule debounced", slog.Int64("rule_id", rule.ID))
		return nil
	}

	customer, err := s.customers.GetByID(ctx, rule.CustomerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return s.skipOrphan(ctx, rule, now)
		}
		return err
	}

	if err := s.guard.Reserve(ctx, rule.CustomerID); err != nil {
		if duplicatePrevented(err) {
			return s.advanceWithoutFiring(ctx, rule, now)
		}
		return err
	}

	if err := s.fire(ctx, rule, customer); err != nil {
		if duplicatePrevented(err) {
			// Lost the race to a concurrent writer after the pre-check
			// passed; same outcome as a guard rejection.
			return s.advanceWithoutFiring(ctx, rule, now)
		}
		return err
	}

	if rule.Type == model.RuleOneTime {
		return s.rules.Delete(ctx, rule.ID)
	}
	next := s.calc.Advance(rule, now)
	return s.rules.UpdateSchedule(ctx, rule.ID, next, &now)
}

// debounced reports whether the rule fired recently without having been
// advanced since, which only happens when sweeps overlap.
func (s *SweepUseCase) debounced(rule *model.RecurrenceRule, now time.Time) bool {
	if rule.LastTriggeredAt == nil || rule.NextRun == nil {
		return false
	}
	return now.Sub(*rule.LastTriggeredAt) < DebounceWindow && !rule.NextRun.After(*rule.LastTriggeredAt)
}

// fire creates the pending delivery request a due rule describes.
func (s *SweepUseCase) fire(ctx context.Context, rule *model.RecurrenceRule, customer *model.Customer) error {
	request := &model.DeliveryRequest{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Address:      customer.Address,
		PricePerCan:  customer.PricePerCan,
		PaymentType:  customer.PaymentType,
		Cans:         rule.Cans,
		Priority:     rule.Priority,
		Status:       model.StatusPending,
	}
	if request.Cans <= 0 {
		request.Cans = 1
	}
	if request.Priority != model.PriorityUrgent {
		request.Priority = model.PriorityNormal
	}

	if _, err := s.requests.Create(ctx, request); err != nil {
		return err
	}

	s.logger.Info("rule fired",
		slog.Int64("rule_id", rule.ID),
		slog.Int64("customer_id", rule.CustomerID),
		slog.String("type", string(rule.Type)),
	)
	return nil
}

// advanceWithoutFiring moves a recurring rule past the blocked occurrence so
// due rules don't pile up behind an unfinished delivery. one_time rules stay
// due and fire on the first sweep after the active request clears; their
// last_triggered_at is left alone so the debounce never eats that fire.
func (s *SweepUseCase) advanceWithoutFiring(ctx context.Context, rule *model.RecurrenceRule, now time.Time) error {
	if !rule.Type.Recurring() {
		return nil
	}
	next := s.calc.Advance(rule, now)
	return s.rules.UpdateSchedule(ctx, rule.ID, next, nil)
}

// skipOrphan handles rules whose customer is gone: no fire, advance (or
// null out for one_time) and stamp last_triggered_at so the rule isn't
// re-attempted every cycle.
func (s *SweepUseCase) skipOrphan(ctx context.Context, rule *model.RecurrenceRule, now time.Time) error {
	s.logger.Warn("rule references missing customer",
		slog.Int64("rule_id", rule.ID),
		slog.Int64("customer_id", rule.CustomerID),
	)
	next := s.calc.Advance(rule, now)
	return s.rules.UpdateSchedule(ctx, rule.ID, next, &now)
}

func duplicatePrevented(err error) bool {
	return errors.Is(err, domainErrors.ErrDuplicateActiveRequest) || errors.Is(err, domainErrors.ErrRateLimited)
}
