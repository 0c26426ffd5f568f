package model

import "time"

// RuleType describes the recurrence cadence.
type RuleType string

const (
	RuleDaily           RuleType = "daily"
	RuleWeekly          RuleType = "weekly"
	RuleOneTime         RuleType = "one_time"
	RuleAlternatingDays RuleType = "alternating_days"
)

// RecurrenceRule is an administrator-defined schedule that materializes
// delivery requests. NextRun is the absolute UTC instant of the next fire;
// Time is business-local "HH:mm". Days (0=Sunday..6=Saturday) only matters
// for weekly rules, Date ("2006-01-02") only for one_time ones.
type RecurrenceRule struct {
	ID         int64
	CustomerID int64

	Type RuleType
	Days []int
	Date string
	Time string

	Cans     int
	Priority RequestPriority

	NextRun         *time.Time
	LastTriggeredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recurring reports whether the rule survives a fire and is advanced rather
// than deleted.
func (r RuleType) Recurring() bool {
	return r == RuleDaily || r == RuleWeekly || r == RuleAlternatingDays
}

// ValidRuleType reports whether t is one of the supported cadences.
func ValidRuleType(t RuleType) bool {
	switch t {
	case RuleDaily, RuleWeekly, RuleOneTime, RuleAlternatingDays:
		return true
	}
	return false
}
