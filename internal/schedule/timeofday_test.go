package schedule

import "testing"

func TestNormalizeTimeOfDay(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "14:05", "14:05"},
		{"single digit hour", "7:30", "07:30"},
		{"with seconds", "09:15:30", "09:15"},
		{"afternoon 12h", "2:30 PM", "14:30"},
		{"midnight 12h", "12:00 AM", "00:00"},
		{"noon 12h", "12:15 PM", "12:15"},
		{"morning 12h no space", "8:45AM", "08:45"},
		{"dotted meridiem", "3:05 p.m.", "15:05"},
		{"padded input", "  06:20  ", "06:20"},
		{"garbage", "whenever", DefaultTimeOfDay},
		{"empty", "", DefaultTimeOfDay},
		{"hour out of range", "25:00", DefaultTimeOfDay},
		{"minute out of range", "10:75", DefaultTimeOfDay},
		{"12h hour out of range", "13:00 PM", DefaultTimeOfDay},
		{"missing minutes", "14", DefaultTimeOfDay},
		{"non numeric seconds", "10:00:xx", DefaultTimeOfDay},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTimeOfDay(tc.in); got != tc.want {
				t.Fatalf("NormalizeTimeOfDay(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTimeOfDayReportsValidity(t *testing.T) {
	if _, _, ok := ParseTimeOfDay("23:59"); !ok {
		t.Fatal("expected 23:59 to parse")
	}
	if _, _, ok := ParseTimeOfDay("24:00"); ok {
		t.Fatal("expected 24:00 to be rejected")
	}
	hour, minute, ok := ParseTimeOfDay("12:01 AM")
	if !ok || hour != 0 || minute != 1 {
		t.Fatalf("ParseTimeOfDay(12:01 AM) = %d:%d ok=%v, want 0:1 true", hour, minute, ok)
	}
}
