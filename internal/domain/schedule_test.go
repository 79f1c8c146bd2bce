package domain

import (
	"errors"
	"testing"
)

func TestScheduleValidate(t *testing.T) {
	valid := func(t *testing.T) Schedule {
		return barberSchedule(t)
	}

	cases := []struct {
		name       string
		mutate     func(*Schedule)
		wantReason string
	}{
		{"valid", func(s *Schedule) {}, ""},
		{"zero-length lunch valid", func(s *Schedule) { s.LunchStart, s.LunchEnd = 0, 0 }, ""},
		{"start equals end", func(s *Schedule) { s.WorkEnd = s.WorkStart }, ScheduleReasonStartAfterEnd},
		{"start after end", func(s *Schedule) { s.WorkStart, s.WorkEnd = s.WorkEnd, s.WorkStart }, ScheduleReasonStartAfterEnd},
		{"lunch before opening", func(s *Schedule) { s.LunchStart = s.WorkStart - 60 }, ScheduleReasonLunchOutOfRange},
		{"lunch past closing", func(s *Schedule) { s.LunchEnd = s.WorkEnd + 30 }, ScheduleReasonLunchOutOfRange},
		{"lunch inverted", func(s *Schedule) { s.LunchStart, s.LunchEnd = s.LunchEnd, s.LunchStart }, ScheduleReasonLunchOutOfRange},
		{"zero granularity", func(s *Schedule) { s.SlotMinutes = 0 }, ScheduleReasonInvalidGranularity},
		{"granularity wider than day", func(s *Schedule) { s.SlotMinutes = 600 }, ScheduleReasonInvalidGranularity},
		{"weekday out of range", func(s *Schedule) { s.DaysOff = []int16{0} }, ScheduleReasonInvalidDayOff},
		{"weekday too large", func(s *Schedule) { s.DaysOff = []int16{8} }, ScheduleReasonInvalidDayOff},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid(t)
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantReason == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var vErr *ScheduleValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ScheduleValidationError", err)
			}
			if vErr.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", vErr.Reason, tc.wantReason)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	if got := mustTimeOfDay(t, "09:30"); got != 9*60+30 {
		t.Fatalf("ParseTimeOfDay(09:30) = %d, want %d", got, 9*60+30)
	}
	if got := mustTimeOfDay(t, "00:00"); got != 0 {
		t.Fatalf("ParseTimeOfDay(00:00) = %d, want 0", got)
	}
	for _, bad := range []string{"24:00", "12:60", "-1:00", "noon", "", "9:00", "09:0", "12:30abc", "+9:00", "0900"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) succeeded, want error", bad)
		}
	}
	if got := TimeOfDay(17*60 + 30).String(); got != "17:30" {
		t.Fatalf("String() = %q, want %q", got, "17:30")
	}
}
