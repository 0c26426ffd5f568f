package repository

import (
	"context"
	"time"

	"github.com/aquadesk/aquadesk/internal/domain/model"
)

// RuleRepository describes persistence operations with recurrence rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *model.RecurrenceRule) (*model.RecurrenceRule, error)
	GetByID(ctx context.Context, id int64) (*model.RecurrenceRule, error)
	List(ctx context.Context) ([]model.RecurrenceRule, error)
	// Due returns rules with next_run at or before the reference instant,
	// ordered by next_run ascending.
	Due(ctx context.Context, now time.Time) ([]model.RecurrenceRule, error)
	Update(ctx context.Context, rule *model.RecurrenceRule) error
	// UpdateSchedule persists next_run/last_triggered_at after a fire or a
	// skip, without touching the schedule definition fields.
	UpdateSchedule(ctx context.Context, id int64, nextRun, lastTriggeredAt *time.Time) error
	Delete(ctx context.Context, id int64) error
}
