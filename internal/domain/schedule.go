package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Weekday identifiers follow ISO-8601: 1 = Monday .. 7 = Sunday.
const (
	WeekdayMonday int16 = iota + 1
	WeekdayTuesday
	WeekdayWednesday
	WeekdayThursday
	WeekdayFriday
	WeekdaySaturday
	WeekdaySunday
)

// ISOWeekday converts time.Weekday (Sunday = 0) to the 1..7 form.
func ISOWeekday(wd time.Weekday) int16 {
	if wd == time.Sunday {
		return WeekdaySunday
	}
	return int16(wd)
}

const DefaultSlotMinutes = 30

// Schedule is a provider's recurring working-hours template, one row per
// provider. Times are minutes since midnight; a zero-length lunch window
// means no lunch break.
type Schedule struct {
	bun.BaseModel `bun:"table:schedules"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	ProviderID  string    `bun:"provider_id,notnull"`
	WorkStart   TimeOfDay `bun:"work_start,notnull"`
	WorkEnd     TimeOfDay `bun:"work_end,notnull"`
	LunchStart  TimeOfDay `bun:"lunch_start,notnull"`
	LunchEnd    TimeOfDay `bun:"lunch_end,notnull"`
	DaysOff     []int16   `bun:"days_off,array,notnull"`
	SlotMinutes int16     `bun:"slot_minutes,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

func (s *Schedule) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

const (
	ScheduleReasonStartAfterEnd      = "start_after_end"
	ScheduleReasonLunchOutOfRange    = "lunch_out_of_range"
	ScheduleReasonInvalidGranularity = "invalid_granularity"
	ScheduleReasonInvalidDayOff      = "invalid_day_off"
)

type ScheduleValidationError struct {
	Reason string
}

func (e *ScheduleValidationError) Error() string {
	return fmt.Sprintf("invalid schedule: %s", e.Reason)
}

// Validate rejects inconsistent templates outright; nothing is clamped.
func (s Schedule) Validate() error {
	if !s.WorkStart.Valid() || !s.WorkEnd.Valid() || s.WorkStart >= s.WorkEnd {
		return &ScheduleValidationError{Reason: ScheduleReasonStartAfterEnd}
	}
	if s.LunchStart != s.LunchEnd {
		if s.LunchStart > s.LunchEnd || s.LunchStart < s.WorkStart || s.LunchEnd > s.WorkEnd {
			return &ScheduleValidationError{Reason: ScheduleReasonLunchOutOfRange}
		}
	}
	if s.SlotMinutes < 1 || int(s.SlotMinutes) > int(s.WorkEnd-s.WorkStart) {
		return &ScheduleValidationError{Reason: ScheduleReasonInvalidGranularity}
	}
	for _, wd := range s.DaysOff {
		if wd < WeekdayMonday || wd > WeekdaySunday {
			return &ScheduleValidationError{Reason: ScheduleReasonInvalidDayOff}
		}
	}
	return nil
}

// HasLunch reports whether the lunch window excludes any time at all.
func (s Schedule) HasLunch() bool {
	return s.LunchStart != s.LunchEnd
}

func (s Schedule) IsDayOff(date time.Time) bool {
	wd := ISOWeekday(date.Weekday())
	for _, off := range s.DaysOff {
		if off == wd {
			return true
		}
	}
	return false
}
