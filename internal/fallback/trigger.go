package fallback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aquadesk/aquadesk/internal/adapter/opsapi"
	domainErrors "github.com/aquadesk/aquadesk/internal/domain/errors"
	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// debounceWindow suppresses re-firing a rule this process already triggered
// moments ago, mirroring the server-side sweep debounce.
const debounceWindow = 5 * time.Minute

// Trigger mirrors the recurrence sweep through the public HTTP API. It runs
// as a separate process for deployments where the server's own scheduler is
// unavailable; all correctness still lives server-side (the guard, the
// storage constraint, the calculator behind the advance endpoint), so a
// trigger racing the server sweep at worst gets a duplicate rejection.
type Trigger struct {
	client   opsapi.Client
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	fired map[int64]time.Time
}

// New constructs the degraded-mode trigger.
func New(client opsapi.Client, interval time.Duration, logger *slog.Logger) *Trigger {
	if interval < 30*time.Second {
		interval = 30 * time.Second
	}
	return &Trigger{
		client:   client,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		fired:    make(map[int64]time.Time),
	}
}

// Run polls until the context is cancelled. The first tick happens
// immediately.
func (t *Trigger) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Tick(ctx, t.now().UTC())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Tick(ctx, t.now().UTC())
		}
	}
}

// Tick fetches the rule list and fires every due rule. Failures on one rule
// never abort the rest.
func (t *Trigger) Tick(ctx context.Context, now time.Time) {
	rules, err := t.client.Rules(ctx)
	if err != nil {
		t.logger.Error("fetch rules failed", slog.String("error", err.Error()))
		return
	}

	t.prune(now)

	for i := range rules {
		rule := &rules[i]
		if rule.NextRun == nil || rule.NextRun.After(now) {
			continue
		}
		if err := t.process(ctx, rule, now); err != nil {
			t.logger.Error("rule trigger failed",
				slog.Int64("rule_id", rule.ID),
				slog.Int64("customer_id", rule.CustomerID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (t *Trigger) process(ctx context.Context, rule *model.RecurrenceRule, now time.Time) error {
	if t.recentlyFired(rule.ID, now) {
		return nil
	}

	_, err := t.client.CreateRequest(ctx, rule.CustomerID, rule.Cans, rule.Priority)
	blocked := duplicatePrevented(err)
	if err != nil && !blocked {
		return err
	}

	t.markFired(rule.ID, now)

	// A blocked one_time rule stays due so it fires once the active request
	// clears; advancing it here would delete it unfired.
	if blocked && rule.Type == model.RuleOneTime {
		return nil
	}

	if err := t.client.AdvanceRule(ctx, rule.ID); err != nil {
		return err
	}

	t.logger.Info("rule triggered",
		slog.Int64("rule_id", rule.ID),
		slog.Int64("customer_id", rule.CustomerID),
		slog.Bool("duplicate_prevented", blocked),
	)
	return nil
}

func (t *Trigger) recentlyFired(ruleID int64, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.fired[ruleID]
	return ok && now.Sub(at) < debounceWindow
}

func (t *Trigger) markFired(ruleID int64, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fired[ruleID] = now
}

func (t *Trigger) prune(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, at := range t.fired {
		if now.Sub(at) >= debounceWindow {
			delete(t.fired, id)
		}
	}
}

func duplicatePrevented(err error) bool {
	return errors.Is(err, domainErrors.ErrDuplicateActiveRequest) || errors.Is(err, domainErrors.ErrRateLimited)
}
