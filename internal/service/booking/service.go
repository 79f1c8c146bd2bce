package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"berberim/backend/internal/domain"
	"berberim/backend/internal/store"
)

// Source identifies who is entering a booking. Self-service bookings start
// pending and wait for the provider's confirmation; manual entries made by
// the provider start confirmed. Conflict checking is identical for both.
type Source string

const (
	SourceSelfService Source = "self_service"
	SourceManual      Source = "manual"
)

type Service struct {
	schedules store.ScheduleRepository
	catalog   store.ServiceRepository
	appts     store.AppointmentRepository

	// now is the injected clock; only Book consults it. Availability is a
	// pure function of the queried date and stored state so that identical
	// queries return identical results.
	now func() time.Time
}

func NewService(schedules store.ScheduleRepository, catalog store.ServiceRepository, appts store.AppointmentRepository) *Service {
	return &Service{
		schedules: schedules,
		catalog:   catalog,
		appts:     appts,
		now:       time.Now,
	}
}

// Slot is one candidate start time on a provider's day. Starts that cannot
// fit the requested service at all are omitted upstream; Available is false
// when an existing booking occupies part of the interval.
type Slot struct {
	Start     domain.TimeOfDay
	Available bool
}

func (s *Service) AvailableSlots(ctx context.Context, providerID string, date time.Time, serviceID uuid.UUID) ([]Slot, error) {
	if providerID == "" {
		return nil, validationError("provider_id", "is required")
	}
	if serviceID == uuid.Nil {
		return nil, validationError("service_id", "is required")
	}

	schedule, svc, err := s.loadScheduleAndService(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}

	day := midnightUTC(date)
	dayEnd := day.Add(24 * time.Hour)

	busy, err := s.appts.ListBlocking(ctx, providerID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	out := make([]Slot, 0)
	for _, t := range domain.Slots(schedule, day) {
		if !domain.FitsDuration(schedule, t, svc.DurationMinutes) {
			continue
		}

		start := t.On(day)
		end := start.Add(time.Duration(svc.DurationMinutes) * time.Minute)

		available := true
		for _, b := range busy {
			if domain.Overlaps(start, end, b.StartsAt, b.EndsAt) {
				available = false
				break
			}
		}
		out = append(out, Slot{Start: t, Available: available})
	}
	return out, nil
}

type BookInput struct {
	ProviderID     string
	ServiceID      uuid.UUID
	CustomerID     *uuid.UUID
	CustomerName   string
	CustomerPhone  string
	StartsAt       time.Time
	Source         Source
	IdempotencyKey string
}

// Book re-derives slot validity from the schedule, then hands the insert to
// the store, whose exclusion constraint decides races: of N concurrent
// bookings for one interval exactly one wins, the rest get ConflictError.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	if in.ProviderID == "" {
		return domain.Appointment{}, validationError("provider_id", "is required")
	}
	if in.ServiceID == uuid.Nil {
		return domain.Appointment{}, validationError("service_id", "is required")
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" && in.CustomerID == nil {
		return domain.Appointment{}, validationError("customer", "name or customer_id is required")
	}
	if in.StartsAt.IsZero() {
		return domain.Appointment{}, validationError("starts_at", "is required")
	}

	source := in.Source
	if source == "" {
		source = SourceSelfService
	}
	if source != SourceSelfService && source != SourceManual {
		return domain.Appointment{}, validationError("source", "must be self_service or manual")
	}

	start := in.StartsAt.UTC().Truncate(time.Minute)
	if !start.Equal(in.StartsAt.UTC()) {
		return domain.Appointment{}, validationError("starts_at", "must have minute resolution")
	}
	if start.Before(s.now().UTC()) {
		return domain.Appointment{}, validationError("starts_at", "cannot be in the past")
	}

	schedule, svc, err := s.loadScheduleAndService(ctx, in.ProviderID, in.ServiceID)
	if err != nil {
		return domain.Appointment{}, err
	}

	// Never trust client-side slot math: the start must be on the slot grid
	// for that day and the full duration must fit.
	day := midnightUTC(start)
	tod := domain.TimeOfDayFrom(start)
	if !onSlotGrid(schedule, day, tod) || !domain.FitsDuration(schedule, tod, svc.DurationMinutes) {
		return domain.Appointment{}, validationError("starts_at", "is not a bookable slot")
	}

	end := start.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	status := domain.StatusPending
	if source == SourceManual {
		status = domain.StatusConfirmed
	}

	appt := domain.Appointment{
		ProviderID:    in.ProviderID,
		ServiceID:     svc.ID,
		CustomerID:    in.CustomerID,
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		StartsAt:      start,
		EndsAt:        end,
		Status:        status,
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, validationError("idempotency_key", "too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("berberim:book:"+in.ProviderID+":"+key))
	}

	created, err := s.appts.Create(ctx, appt)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, &ConflictError{Start: start, End: end}
		}
		return domain.Appointment{}, err
	}
	return created, nil
}

func (s *Service) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error) {
	if appointmentID == uuid.Nil {
		return domain.Appointment{}, validationError("appointment_id", "is required")
	}
	if !to.Valid() {
		return domain.Appointment{}, validationError("status", "unknown status")
	}

	appt, err := s.appts.UpdateStatus(ctx, appointmentID, to)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, &NotFoundError{Resource: "appointment"}
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (s *Service) ListAppointments(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	if providerID == "" {
		return nil, validationError("provider_id", "is required")
	}
	start := windowStart.UTC()
	end := windowEnd.UTC()
	if !end.After(start) {
		return nil, validationError("window", "window_end must be after window_start")
	}
	return s.appts.List(ctx, providerID, start, end)
}

type PutScheduleInput struct {
	ProviderID  string
	WorkStart   domain.TimeOfDay
	WorkEnd     domain.TimeOfDay
	LunchStart  domain.TimeOfDay
	LunchEnd    domain.TimeOfDay
	DaysOff     []int16
	SlotMinutes int16
}

func (s *Service) PutSchedule(ctx context.Context, in PutScheduleInput) (domain.Schedule, error) {
	if in.ProviderID == "" {
		return domain.Schedule{}, validationError("provider_id", "is required")
	}

	slotMinutes := in.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = domain.DefaultSlotMinutes
	}

	daysOff := make([]int16, 0, len(in.DaysOff))
	seen := make(map[int16]struct{}, len(in.DaysOff))
	for _, wd := range in.DaysOff {
		if _, ok := seen[wd]; ok {
			continue
		}
		seen[wd] = struct{}{}
		daysOff = append(daysOff, wd)
	}

	schedule := domain.Schedule{
		ProviderID:  in.ProviderID,
		WorkStart:   in.WorkStart,
		WorkEnd:     in.WorkEnd,
		LunchStart:  in.LunchStart,
		LunchEnd:    in.LunchEnd,
		DaysOff:     daysOff,
		SlotMinutes: slotMinutes,
	}

	if err := schedule.Validate(); err != nil {
		var sErr *domain.ScheduleValidationError
		if errors.As(err, &sErr) {
			return domain.Schedule{}, validationError("schedule", sErr.Reason)
		}
		return domain.Schedule{}, err
	}

	return s.schedules.Upsert(ctx, schedule)
}

type CreateServiceInput struct {
	ProviderID      string
	Name            string
	DurationMinutes int
	PriceCents      *int64
	IsActive        bool
}

func (s *Service) CreateService(ctx context.Context, in CreateServiceInput) (domain.CatalogService, error) {
	if in.ProviderID == "" {
		return domain.CatalogService{}, validationError("provider_id", "is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.CatalogService{}, validationError("name", "is required")
	}
	if in.DurationMinutes <= 0 {
		return domain.CatalogService{}, validationError("duration_minutes", "must be positive")
	}
	if in.DurationMinutes > domain.MinutesPerDay {
		return domain.CatalogService{}, validationError("duration_minutes", "must not exceed one day")
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		return domain.CatalogService{}, validationError("price_cents", "must not be negative")
	}

	return s.catalog.Create(ctx, domain.CatalogService{
		ProviderID:      in.ProviderID,
		Name:            name,
		DurationMinutes: in.DurationMinutes,
		PriceCents:      in.PriceCents,
		IsActive:        in.IsActive,
	})
}

func (s *Service) ListServices(ctx context.Context, providerID string, activeOnly bool) ([]domain.CatalogService, error) {
	if providerID == "" {
		return nil, validationError("provider_id", "is required")
	}
	return s.catalog.ListByProvider(ctx, providerID, activeOnly)
}

func (s *Service) loadScheduleAndService(ctx context.Context, providerID string, serviceID uuid.UUID) (domain.Schedule, domain.CatalogService, error) {
	schedule, err := s.schedules.GetByProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Schedule{}, domain.CatalogService{}, &NotFoundError{Resource: "schedule"}
		}
		return domain.Schedule{}, domain.CatalogService{}, err
	}

	svc, err := s.catalog.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Schedule{}, domain.CatalogService{}, &NotFoundError{Resource: "service"}
		}
		return domain.Schedule{}, domain.CatalogService{}, err
	}
	if !svc.IsActive {
		return domain.Schedule{}, domain.CatalogService{}, validationError("service_id", "service is inactive")
	}

	return schedule, svc, nil
}

func onSlotGrid(schedule domain.Schedule, day time.Time, t domain.TimeOfDay) bool {
	for _, slot := range domain.Slots(schedule, day) {
		if slot == t {
			return true
		}
	}
	return false
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
