package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"berberim/backend/internal/domain"
)

type AppointmentRepository interface {
	// Create inserts the appointment, returning ErrConflict when a blocking
	// appointment already occupies any part of the interval. The overlap
	// check and the insert are a single atomic operation.
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	// ListBlocking returns pending and confirmed appointments intersecting
	// [windowStart, windowEnd), ascending by start time.
	ListBlocking(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)

	List(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)

	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)

	// UpdateStatus applies the appointment state machine under a row lock;
	// illegal transitions fail with *domain.InvalidTransitionError.
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error)
}

type ScheduleRepository interface {
	Upsert(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	GetByProvider(ctx context.Context, providerID string) (domain.Schedule, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, svc domain.CatalogService) (domain.CatalogService, error)
	Get(ctx context.Context, serviceID uuid.UUID) (domain.CatalogService, error)
	ListByProvider(ctx context.Context, providerID string, activeOnly bool) ([]domain.CatalogService, error)
}
