package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type ScenarioSnapshotRepo interface {
	Create(dbc dbctx.Context, row *domain.ScenarioSnapshot) (*domain.ScenarioSnapshot, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ScenarioSnapshot, error)
	GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.ScenarioSnapshot, error)
	CountBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (int64, error)
	Update(dbc dbctx.Context, row *domain.ScenarioSnapshot) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type scenarioSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioSnapshotRepo {
	return &scenarioSnapshotRepo{db: db, log: baseLog.With("repo", "ScenarioSnapshotRepo")}
}

func (r *scenarioSnapshotRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *scenarioSnapshotRepo) Create(dbc dbctx.Context, row *domain.ScenarioSnapshot) (*domain.ScenarioSnapshot, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *scenarioSnapshotRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ScenarioSnapshot, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.ScenarioSnapshot
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *scenarioSnapshotRepo) GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.ScenarioSnapshot, error) {
	var out []*domain.ScenarioSnapshot
	if schemeID == uuid.Nil {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scenarioSnapshotRepo) CountBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (int64, error) {
	var n int64
	if schemeID == uuid.Nil {
		return 0, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.ScenarioSnapshot{}).
		Where("scheme_id = ?", schemeID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *scenarioSnapshotRepo) Update(dbc dbctx.Context, row *domain.ScenarioSnapshot) error {
	return r.tx(dbc).WithContext(dbc.Ctx).Save(row).Error
}

func (r *scenarioSnapshotRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&domain.ScenarioSnapshot{}).Error
}
