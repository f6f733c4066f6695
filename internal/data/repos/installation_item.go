package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type InstallationItemRepo interface {
	Create(dbc dbctx.Context, rows []*domain.InstallationItem) ([]*domain.InstallationItem, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.InstallationItem, error)
	GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.InstallationItem, error)
	GetBySchemeIDAndCategory(dbc dbctx.Context, schemeID uuid.UUID, category domain.InstallationCategory) ([]*domain.InstallationItem, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error
}

type installationItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstallationItemRepo(db *gorm.DB, baseLog *logger.Logger) InstallationItemRepo {
	return &installationItemRepo{db: db, log: baseLog.With("repo", "InstallationItemRepo")}
}

func (r *installationItemRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *installationItemRepo) Create(dbc dbctx.Context, rows []*domain.InstallationItem) ([]*domain.InstallationItem, error) {
	if len(rows) == 0 {
		return []*domain.InstallationItem{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *installationItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.InstallationItem, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.InstallationItem
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *installationItemRepo) GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.InstallationItem, error) {
	var out []*domain.InstallationItem
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

func (r *installationItemRepo) GetBySchemeIDAndCategory(dbc dbctx.Context, schemeID uuid.UUID, category domain.InstallationCategory) ([]*domain.InstallationItem, error) {
	var out []*domain.InstallationItem
	if schemeID == uuid.Nil {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ? AND category = ?", schemeID, category).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *installationItemRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&domain.InstallationItem{}).Error
}

func (r *installationItemRepo) DeleteBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error {
	if schemeID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Delete(&domain.InstallationItem{}).Error
}
