package domain

import "time"

// Slots returns the candidate appointment start times for the given date,
// ascending. The result is empty on a day off. Start points step through the
// working hours at the schedule's granularity; a grid cell touching the lunch
// window is excluded. Feasibility for a concrete service duration is a
// separate, stricter check (FitsDuration).
func Slots(s Schedule, date time.Time) []TimeOfDay {
	if s.IsDayOff(date) {
		return nil
	}

	step := int(s.SlotMinutes)
	out := make([]TimeOfDay, 0, int(s.WorkEnd-s.WorkStart)/step)
	for t := s.WorkStart; t < s.WorkEnd; t = t.Add(step) {
		if s.HasLunch() && overlapsTimeOfDay(t, t.Add(step), s.LunchStart, s.LunchEnd) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FitsDuration reports whether a booking of durationMinutes starting at t
// stays within working hours and clear of the lunch window. Durations that
// are not a multiple of the slot granularity are allowed; it is the actual
// end time that matters. The comparison runs in int so that a duration wide
// enough to wrap TimeOfDay cannot pass as feasible.
func FitsDuration(s Schedule, t TimeOfDay, durationMinutes int) bool {
	end := int(t) + durationMinutes
	if end > int(s.WorkEnd) {
		return false
	}
	if s.HasLunch() && overlapsTimeOfDay(t, TimeOfDay(end), s.LunchStart, s.LunchEnd) {
		return false
	}
	return true
}

// Half-open intervals: [aStart,aEnd) and [bStart,bEnd) overlap iff
// aStart < bEnd && bStart < aEnd.
func overlapsTimeOfDay(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// Overlaps is the same half-open test over instants.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
