package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"berberim/backend/internal/domain"
	"berberim/backend/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InProviderTransaction(ctx, appt.ProviderID, func(ctx context.Context, tx store.BookingTx) error {
		a, err := tx.CreateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) List(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("starts_at < ?", windowEnd).
		Where("ends_at > ?", windowStart).
		OrderExpr("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return rows, nil
}

func (r *AppointmentRepo) ListBlocking(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("status IN (?)", bun.In([]domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed})).
		Where("starts_at < ?", windowEnd).
		Where("ends_at > ?", windowStart).
		OrderExpr("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return rows, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, mapStoreErr(err)
	}
	return appt, nil
}

// UpdateStatus loads the row under FOR UPDATE, checks the transition table,
// and persists the new status. No legal transition creates a new blocking
// interval, so the provider calendar lock is not needed here.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var appt domain.Appointment
		err := tx.NewSelect().
			Model(&appt).
			Where("id = ?", appointmentID).
			For("UPDATE").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if isNoRows(err) {
				return store.ErrNotFound
			}
			return err
		}

		if !domain.CanTransition(appt.Status, to) {
			return &domain.InvalidTransitionError{From: appt.Status, To: to}
		}

		appt.Status = to
		if _, err := tx.NewUpdate().
			Model(&appt).
			Column("status", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
		out = appt
		return nil
	})
	if err != nil {
		return domain.Appointment{}, mapStoreErr(err)
	}
	return out, nil
}

// InProviderTransaction serializes calendar writes for one provider behind a
// transaction-scoped advisory lock. The exclusion constraint remains the
// backstop; the lock keeps lock ordering simple and conflict errors prompt.
func (r *AppointmentRepo) InProviderTransaction(ctx context.Context, providerID string, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderCalendar(ctx, tx, providerID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockProviderCalendar(ctx context.Context, tx bun.Tx, providerID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", providerID).Exec(ctx)
	return err
}

func (r bookingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	// A preset id means an idempotency-keyed booking. The provider calendar
	// lock is already held, so looking the id up before inserting is
	// race-free, and it has to happen before: a failed insert aborts the
	// transaction and no replay query could run after it.
	if appt.ID != uuid.Nil {
		var existing domain.Appointment
		err := r.tx.NewSelect().
			Model(&existing).
			Where("id = ?", appt.ID).
			Limit(1).
			Scan(ctx)
		switch {
		case err == nil:
			// Identical payload means a replay, anything else a misuse.
			if !sameBookingPayload(existing, appt) {
				return domain.Appointment{}, store.ErrIdempotencyConflict
			}
			return existing, nil
		case !isNoRows(err):
			return domain.Appointment{}, mapStoreErr(err)
		}
	}

	// Under the provider lock a pre-check catches overlaps without tripping
	// the constraint and aborting the transaction; the exclusion constraint
	// stays in place as the backstop.
	busy, err := r.ListBlocking(ctx, appt.ProviderID, appt.StartsAt, appt.EndsAt)
	if err != nil {
		return domain.Appointment{}, mapStoreErr(err)
	}
	if len(busy) > 0 {
		return domain.Appointment{}, store.ErrConflict
	}

	m := appt
	_, err = r.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, mapStoreErr(err)
	}

	appt.ID = m.ID
	appt.CreatedAt = m.CreatedAt
	appt.UpdatedAt = m.UpdatedAt
	return appt, nil
}

func sameBookingPayload(existing, appt domain.Appointment) bool {
	sameCustomer := (existing.CustomerID == nil) == (appt.CustomerID == nil)
	if sameCustomer && existing.CustomerID != nil {
		sameCustomer = *existing.CustomerID == *appt.CustomerID
	}
	return sameCustomer &&
		existing.ProviderID == appt.ProviderID &&
		existing.ServiceID == appt.ServiceID &&
		existing.CustomerName == appt.CustomerName &&
		existing.CustomerPhone == appt.CustomerPhone &&
		existing.StartsAt.Equal(appt.StartsAt) &&
		existing.EndsAt.Equal(appt.EndsAt)
}

func (r bookingTx) ListBlocking(ctx context.Context, providerID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("status IN (?)", bun.In([]domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed})).
		Where("starts_at < ?", windowEnd).
		Where("ends_at > ?", windowStart).
		OrderExpr("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mapStoreErr tags transport-level database failures so callers can retry
// with backoff instead of surfacing an internal error.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}
