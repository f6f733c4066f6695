package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// ReferenceRepo is the read-only view over plant/mix/product/fuel/setup/metric
// reference data. Maintenance happens in an external admin service.
type ReferenceRepo interface {
	GetPlantByID(dbc dbctx.Context, id uuid.UUID) (*domain.Plant, error)
	GetMixTypesByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MixType, error)
	GetProductsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Product, error)
	GetFuelTypeByID(dbc dbctx.Context, id uuid.UUID) (*domain.FuelType, error)
	GetInstallationSetupByID(dbc dbctx.Context, id uuid.UUID) (*domain.InstallationSetup, error)
	GetReportMetrics(dbc dbctx.Context, activeOnly bool) ([]*domain.ReportMetric, error)
}

type referenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceRepo {
	return &referenceRepo{db: db, log: baseLog.With("repo", "ReferenceRepo")}
}

func (r *referenceRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *referenceRepo) GetPlantByID(dbc dbctx.Context, id uuid.UUID) (*domain.Plant, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Plant
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *referenceRepo) GetMixTypesByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MixType, error) {
	var out []*domain.MixType
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceRepo) GetProductsByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceRepo) GetFuelTypeByID(dbc dbctx.Context, id uuid.UUID) (*domain.FuelType, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.FuelType
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *referenceRepo) GetInstallationSetupByID(dbc dbctx.Context, id uuid.UUID) (*domain.InstallationSetup, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.InstallationSetup
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *referenceRepo) GetReportMetrics(dbc dbctx.Context, activeOnly bool) ([]*domain.ReportMetric, error) {
	var out []*domain.ReportMetric
	q := r.tx(dbc).WithContext(dbc.Ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("label ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
