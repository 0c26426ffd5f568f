package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultTimeOfDay is substituted for malformed rule times so a bad rule
// keeps a sane morning slot instead of stalling the scheduler.
const DefaultTimeOfDay = "09:00"

// NormalizeTimeOfDay converts a rule time string to strict 24-hour "HH:mm".
// Accepted inputs: "HH:mm", "HH:mm:ss" and 12-hour "h:mm AM/PM". Anything
// unparseable yields DefaultTimeOfDay.
func NormalizeTimeOfDay(raw string) string {
	h, m, ok := ParseTimeOfDay(raw)
	if !ok {
		return DefaultTimeOfDay
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseTimeOfDay parses the same formats as NormalizeTimeOfDay and reports
// whether the input was well-formed.
func ParseTimeOfDay(raw string) (hour, minute int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, false
	}

	meridiem := ""
	upper := strings.ToUpper(s)
	for _, suffix := range []string{"AM", "PM", "A.M.", "P.M."} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix[:1]
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
			return 0, 0, false
		}
	}

	switch meridiem {
	case "A":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "P":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
