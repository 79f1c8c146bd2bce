package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"berberim/backend/internal/domain"
	"berberim/backend/internal/store"
)

type ServiceRepo struct {
	db *bun.DB
}

func NewServiceRepo(db *bun.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) Create(ctx context.Context, svc domain.CatalogService) (domain.CatalogService, error) {
	m := svc
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.CatalogService{}, mapStoreErr(err)
	}
	return m, nil
}

func (r *ServiceRepo) Get(ctx context.Context, serviceID uuid.UUID) (domain.CatalogService, error) {
	var svc domain.CatalogService
	err := r.db.NewSelect().
		Model(&svc).
		Where("id = ?", serviceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return domain.CatalogService{}, store.ErrNotFound
		}
		return domain.CatalogService{}, mapStoreErr(err)
	}
	return svc, nil
}

func (r *ServiceRepo) ListByProvider(ctx context.Context, providerID string, activeOnly bool) ([]domain.CatalogService, error) {
	var rows []domain.CatalogService
	q := r.db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		OrderExpr("name ASC")
	if activeOnly {
		q = q.Where("is_active")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, mapStoreErr(err)
	}
	return rows, nil
}
