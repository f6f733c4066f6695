package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type SchemeProductRepo interface {
	Create(dbc dbctx.Context, rows []*domain.SchemeProduct) ([]*domain.SchemeProduct, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SchemeProduct, error)
	GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.SchemeProduct, error)
	CountBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error
}

type schemeProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchemeProductRepo(db *gorm.DB, baseLog *logger.Logger) SchemeProductRepo {
	return &schemeProductRepo{db: db, log: baseLog.With("repo", "SchemeProductRepo")}
}

func (r *schemeProductRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *schemeProductRepo) Create(dbc dbctx.Context, rows []*domain.SchemeProduct) ([]*domain.SchemeProduct, error) {
	if len(rows) == 0 {
		return []*domain.SchemeProduct{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *schemeProductRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SchemeProduct, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.SchemeProduct
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *schemeProductRepo) GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.SchemeProduct, error) {
	var out []*domain.SchemeProduct
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

func (r *schemeProductRepo) CountBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (int64, error) {
	var n int64
	if schemeID == uuid.Nil {
		return 0, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.SchemeProduct{}).
		Where("scheme_id = ?", schemeID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *schemeProductRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&domain.SchemeProduct{}).Error
}

func (r *schemeProductRepo) DeleteBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error {
	if schemeID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Delete(&domain.SchemeProduct{}).Error
}
