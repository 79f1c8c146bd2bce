package store

import (
	"context"
	"time"

	"berberim/backend/internal/domain"
)

// BookingTx is the set of operations available inside a provider-scoped
// booking transaction. All writes to a provider's calendar go through one;
// the transaction holds the provider's advisory lock for its duration.
type BookingTx interface {
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	ListBlocking(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
}
