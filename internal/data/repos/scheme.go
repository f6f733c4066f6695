package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type SchemeRepo interface {
	Create(dbc dbctx.Context, row *domain.Scheme) (*domain.Scheme, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Scheme, error)
	Update(dbc dbctx.Context, row *domain.Scheme) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetActiveScenario(dbc dbctx.Context, schemeID uuid.UUID, scenarioID *uuid.UUID) error
}

type schemeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchemeRepo(db *gorm.DB, baseLog *logger.Logger) SchemeRepo {
	return &schemeRepo{db: db, log: baseLog.With("repo", "SchemeRepo")}
}

func (r *schemeRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *schemeRepo) Create(dbc dbctx.Context, row *domain.Scheme) (*domain.Scheme, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *schemeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Scheme, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.Scheme
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *schemeRepo) Update(dbc dbctx.Context, row *domain.Scheme) error {
	return r.tx(dbc).WithContext(dbc.Ctx).Save(row).Error
}

func (r *schemeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Scheme{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *schemeRepo) SetActiveScenario(dbc dbctx.Context, schemeID uuid.UUID, scenarioID *uuid.UUID) error {
	if schemeID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Scheme{}).
		Where("id = ?", schemeID).
		Update("active_scenario_id", scenarioID).Error
}
