package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a minute-resolution clock time, stored as minutes since
// midnight. Slot math happens on this type; a concrete instant only exists
// once a TimeOfDay is combined with a date via On.
type TimeOfDay int16

const MinutesPerDay = 24 * 60

// ParseTimeOfDay accepts the exact HH:MM form, nothing looser.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// On pins the clock time to the given date, in that date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

// TimeOfDayFrom extracts the minute-of-day of an instant, discarding seconds.
func TimeOfDayFrom(instant time.Time) TimeOfDay {
	return TimeOfDay(instant.Hour()*60 + instant.Minute())
}
