package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Blocks reports whether an appointment in this status occupies its time
// interval. Cancelled and completed appointments free the slot.
func (s AppointmentStatus) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// CanTransition reports whether from -> to is a legal status change.
// Completed and cancelled are terminal.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// Appointment is a booked interval on a provider's calendar. The customer may
// be a linked account (CustomerID) or an anonymous name+phone pair; either
// way StartsAt < EndsAt, and the no-overlap invariant over blocking statuses
// is enforced by the appointments_no_overlap constraint in Postgres.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID            uuid.UUID         `bun:"id,pk,type:uuid"`
	ProviderID    string            `bun:"provider_id,notnull"`
	ServiceID     uuid.UUID         `bun:"service_id,type:uuid,notnull"`
	CustomerID    *uuid.UUID        `bun:"customer_id,type:uuid"`
	CustomerName  string            `bun:"customer_name,notnull"`
	CustomerPhone string            `bun:"customer_phone"`
	StartsAt      time.Time         `bun:"starts_at,notnull"`
	EndsAt        time.Time         `bun:"ends_at,notnull"`
	Status        AppointmentStatus `bun:"status,notnull"`
	CreatedAt     time.Time         `bun:"created_at,notnull"`
	UpdatedAt     time.Time         `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
