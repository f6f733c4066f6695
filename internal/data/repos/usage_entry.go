package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type UsageEntryRepo interface {
	Create(dbc dbctx.Context, rows []*domain.UsageEntry) ([]*domain.UsageEntry, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.UsageEntry, error)
	GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.UsageEntry, error)
	GetByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*domain.UsageEntry, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteAutoByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) error
	DeleteBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error
}

type usageEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageEntryRepo(db *gorm.DB, baseLog *logger.Logger) UsageEntryRepo {
	return &usageEntryRepo{db: db, log: baseLog.With("repo", "UsageEntryRepo")}
}

func (r *usageEntryRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *usageEntryRepo) Create(dbc dbctx.Context, rows []*domain.UsageEntry) ([]*domain.UsageEntry, error) {
	if len(rows) == 0 {
		return []*domain.UsageEntry{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *usageEntryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.UsageEntry, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*domain.UsageEntry
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *usageEntryRepo) GetBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.UsageEntry, error) {
	var out []*domain.UsageEntry
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

func (r *usageEntryRepo) GetByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*domain.UsageEntry, error) {
	var out []*domain.UsageEntry
	if len(itemIDs) == 0 {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("installation_item_id IN ?", itemIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *usageEntryRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&domain.UsageEntry{}).Error
}

// DeleteAutoByItemIDs removes only system-derived rows for the given items,
// leaving user-entered usage untouched.
func (r *usageEntryRepo) DeleteAutoByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("installation_item_id IN ? AND auto_generated = ?", itemIDs, true).
		Delete(&domain.UsageEntry{}).Error
}

func (r *usageEntryRepo) DeleteBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error {
	if schemeID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Delete(&domain.UsageEntry{}).Error
}
