package domain

import (
	"testing"
	"time"
)

func mustTimeOfDay(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) error: %v", s, err)
	}
	return tod
}

func barberSchedule(t *testing.T) Schedule {
	t.Helper()
	return Schedule{
		ProviderID:  "b1",
		WorkStart:   mustTimeOfDay(t, "09:00"),
		WorkEnd:     mustTimeOfDay(t, "18:00"),
		LunchStart:  mustTimeOfDay(t, "12:00"),
		LunchEnd:    mustTimeOfDay(t, "13:00"),
		DaysOff:     []int16{WeekdaySunday},
		SlotMinutes: 30,
	}
}

func TestSlots_WorkingDayExcludesLunch(t *testing.T) {
	s := barberSchedule(t)
	tuesday := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)

	got := Slots(s, tuesday)

	want := []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
		"16:00", "16:30", "17:00", "17:30",
	}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d (%v)", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Fatalf("slot[%d] = %s, want %s", i, got[i], w)
		}
	}
}

func TestSlots_DayOffIsEmpty(t *testing.T) {
	s := barberSchedule(t)
	sunday := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)

	if got := Slots(s, sunday); len(got) != 0 {
		t.Fatalf("slots on day off = %v, want empty", got)
	}
}

func TestSlots_StrictlyAscendingAndOutsideLunch(t *testing.T) {
	s := barberSchedule(t)
	got := Slots(s, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))

	for i, slot := range got {
		if i > 0 && got[i-1] >= slot {
			t.Fatalf("slots not strictly ascending at %d: %v", i, got)
		}
		if slot >= s.LunchStart && slot < s.LunchEnd {
			t.Fatalf("slot %s falls inside lunch window", slot)
		}
	}
}

func TestSlots_ZeroLengthLunchExcludesNothing(t *testing.T) {
	s := barberSchedule(t)
	s.LunchStart = mustTimeOfDay(t, "12:00")
	s.LunchEnd = mustTimeOfDay(t, "12:00")

	got := Slots(s, time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))
	if len(got) != 18 {
		t.Fatalf("len(got) = %d, want 18 (%v)", len(got), got)
	}
}

func TestFitsDuration(t *testing.T) {
	s := barberSchedule(t)

	cases := []struct {
		name     string
		start    string
		duration int
		want     bool
	}{
		{"last feasible start", "17:30", 30, true},
		{"runs past closing", "17:30", 60, false},
		{"ends exactly at closing", "17:00", 60, true},
		{"runs into lunch", "11:30", 60, false},
		{"ends exactly at lunch start", "11:30", 30, true},
		{"odd duration allowed", "09:00", 45, true},
		{"odd duration into lunch", "11:30", 45, false},
		{"duration wider than a day", "09:00", 2 * MinutesPerDay, false},
		{"duration wide enough to wrap int16", "09:00", 65520, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FitsDuration(s, mustTimeOfDay(t, tc.start), tc.duration)
			if got != tc.want {
				t.Fatalf("FitsDuration(%s, %d) = %v, want %v", tc.start, tc.duration, got, tc.want)
			}
		})
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	base := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)

	// back-to-back intervals do not overlap
	if Overlaps(base, base.Add(30*time.Minute), base.Add(30*time.Minute), base.Add(time.Hour)) {
		t.Fatalf("adjacent intervals reported as overlapping")
	}
	if !Overlaps(base, base.Add(time.Hour), base.Add(30*time.Minute), base.Add(90*time.Minute)) {
		t.Fatalf("overlapping intervals not detected")
	}
}
