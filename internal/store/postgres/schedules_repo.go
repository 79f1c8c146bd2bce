package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"berberim/backend/internal/domain"
	"berberim/backend/internal/store"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Upsert replaces the provider's working-hours template. Callers validate
// the schedule first; an invalid template never reaches this point.
func (r *ScheduleRepo) Upsert(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	m := schedule
	_, err := r.db.NewInsert().
		Model(&m).
		On("CONFLICT (provider_id) DO UPDATE").
		Set("work_start = EXCLUDED.work_start").
		Set("work_end = EXCLUDED.work_end").
		Set("lunch_start = EXCLUDED.lunch_start").
		Set("lunch_end = EXCLUDED.lunch_end").
		Set("days_off = EXCLUDED.days_off").
		Set("slot_minutes = EXCLUDED.slot_minutes").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return domain.Schedule{}, mapStoreErr(err)
	}
	return r.GetByProvider(ctx, schedule.ProviderID)
}

func (r *ScheduleRepo) GetByProvider(ctx context.Context, providerID string) (domain.Schedule, error) {
	var s domain.Schedule
	err := r.db.NewSelect().
		Model(&s).
		Where("provider_id = ?", providerID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return domain.Schedule{}, store.ErrNotFound
		}
		return domain.Schedule{}, mapStoreErr(err)
	}
	return s, nil
}
