package schedule

import (
	"sort"
	"time"

	"github.com/aquadesk/aquadesk/internal/domain/model"
)

const ruleDateLayout = "2006-01-02"

// fallbackDelay is applied when a rule is too malformed to compute a real
// occurrence, so it retries later instead of staying due forever.
const fallbackDelay = time.Hour

// Calculator turns recurrence rules into concrete UTC fire instants. All
// time-of-day semantics use the business-local fixed UTC offset, never the
// host timezone.
type Calculator struct {
	loc *time.Location
}

// NewCalculator builds a calculator for the given business UTC offset in
// minutes.
func NewCalculator(offsetMinutes int) *Calculator {
	return &Calculator{loc: time.FixedZone("business", offsetMinutes*60)}
}

// NextRun computes the first fire instant at or after now from the rule's
// schedule fields alone. Used when a rule is created or its schedule
// changes; post-fire advancement goes through Advance to stay drift-free.
func (c *Calculator) NextRun(rule *model.RecurrenceRule, now time.Time) time.Time {
	hour, minute, ok := ParseTimeOfDay(rule.Time)
	if !ok {
		hour, minute, _ = ParseTimeOfDay(DefaultTimeOfDay)
	}
	nowLocal := now.In(c.loc)
	today := midnight(nowLocal)

	switch rule.Type {
	case model.RuleOneTime:
		day, err := time.ParseInLocation(ruleDateLayout, rule.Date, c.loc)
		if err != nil {
			return now.Add(fallbackDelay).UTC()
		}
		return c.at(day, hour, minute).UTC()

	case model.RuleDaily:
		cand := c.at(today, hour, minute)
		if !cand.After(now) {
			cand = c.at(today.AddDate(0, 0, 1), hour, minute)
		}
		return cand.UTC()

	case model.RuleAlternatingDays:
		// From-now computation cannot know the alternation phase, so the
		// first occurrence lands like a daily rule; the two-day cadence is
		// kept by Advance anchoring to the previous occurrence.
		cand := c.at(today, hour, minute)
		if !cand.After(now) {
			cand = c.at(today.AddDate(0, 0, 1), hour, minute)
		}
		return cand.UTC()

	case model.RuleWeekly:
		days := normalizeDays(rule.Days)
		if len(days) == 0 {
			return c.at(today.AddDate(0, 0, 7), hour, minute).UTC()
		}
		for i := 0; i <= 7; i++ {
			day := today.AddDate(0, 0, i)
			cand := c.at(day, hour, minute)
			if cand.After(now) && days[int(day.Weekday())] {
				return cand.UTC()
			}
		}
		return now.Add(fallbackDelay).UTC()
	}

	return now.Add(fallbackDelay).UTC()
}

// Advance computes the occurrence after the rule's previous NextRun by
// adding the rule's own interval and re-applying the previous occurrence's
// exact hour and minute, so delayed or missed sweeps never drift the
// wall-clock time. Returns nil for one_time rules, which are single-shot.
func (c *Calculator) Advance(rule *model.RecurrenceRule, now time.Time) *time.Time {
	if rule.Type == model.RuleOneTime {
		return nil
	}
	if rule.NextRun == nil {
		next := c.NextRun(rule, now)
		return &next
	}

	prev := rule.NextRun.In(c.loc)
	hour, minute := prev.Hour(), prev.Minute()
	day := midnight(prev)
	day = c.catchUp(rule, day, now)

	for {
		day = c.step(rule, day)
		cand := c.at(day, hour, minute)
		if cand.After(now) {
			next := cand.UTC()
			return &next
		}
	}
}

// step moves one interval forward from the given occurrence date.
func (c *Calculator) step(rule *model.RecurrenceRule, day time.Time) time.Time {
	switch rule.Type {
	case model.RuleAlternatingDays:
		return day.AddDate(0, 0, 2)
	case model.RuleWeekly:
		days := normalizeDays(rule.Days)
		if len(days) == 0 {
			return day.AddDate(0, 0, 7)
		}
		for i := 1; i <= 7; i++ {
			cand := day.AddDate(0, 0, i)
			if days[int(cand.Weekday())] {
				return cand
			}
		}
		return day.AddDate(0, 0, 7)
	default:
		return day.AddDate(0, 0, 1)
	}
}

// catchUp jumps a far-behind anchor forward in whole intervals, keeping
// alternating-day parity and weekly weekday phase intact.
func (c *Calculator) catchUp(rule *model.RecurrenceRule, day time.Time, now time.Time) time.Time {
	behind := int(now.In(c.loc).Sub(day).Hours() / 24)
	if behind <= 14 {
		return day
	}
	switch rule.Type {
	case model.RuleAlternatingDays:
		return day.AddDate(0, 0, (behind-2)/2*2)
	case model.RuleWeekly:
		return day.AddDate(0, 0, (behind-7)/7*7)
	default:
		return day.AddDate(0, 0, behind-1)
	}
}

func (c *Calculator) at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, c.loc)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func normalizeDays(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			set[d] = true
		}
	}
	return set
}

// SortedDays returns the valid weekday indices of a rule, deduplicated and
// ascending, for storage and API responses.
func SortedDays(days []int) []int {
	set := normalizeDays(days)
	out := make([]int, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
