package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type PlantMixFactorRepo interface {
	Create(dbc dbctx.Context, rows []*domain.PlantMixFactor) ([]*domain.PlantMixFactor, error)
	// ListExact returns every row keyed by the full (plant, mix, product)
	// triple. A level can hold sibling rows that each carry only some of the
	// nullable value columns, so lookups return all of them.
	ListExact(dbc dbctx.Context, plantID, mixTypeID, productID uuid.UUID) ([]*domain.PlantMixFactor, error)
	// ListMixLevel returns the product-agnostic rows for (plant, mix).
	ListMixLevel(dbc dbctx.Context, plantID, mixTypeID uuid.UUID) ([]*domain.PlantMixFactor, error)
	// ListPlantDefaults returns the plant's flagged default rows, whatever
	// their mix/product keys.
	ListPlantDefaults(dbc dbctx.Context, plantID uuid.UUID) ([]*domain.PlantMixFactor, error)
	UnsetDefaultsForPlant(dbc dbctx.Context, plantID uuid.UUID) error
	SetDefault(dbc dbctx.Context, id uuid.UUID) error
}

type plantMixFactorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlantMixFactorRepo(db *gorm.DB, baseLog *logger.Logger) PlantMixFactorRepo {
	return &plantMixFactorRepo{db: db, log: baseLog.With("repo", "PlantMixFactorRepo")}
}

func (r *plantMixFactorRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *plantMixFactorRepo) Create(dbc dbctx.Context, rows []*domain.PlantMixFactor) ([]*domain.PlantMixFactor, error) {
	if len(rows) == 0 {
		return []*domain.PlantMixFactor{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *plantMixFactorRepo) ListExact(dbc dbctx.Context, plantID, mixTypeID, productID uuid.UUID) ([]*domain.PlantMixFactor, error) {
	if plantID == uuid.Nil || mixTypeID == uuid.Nil || productID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.PlantMixFactor
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("plant_id = ? AND mix_type_id = ? AND product_id = ?", plantID, mixTypeID, productID).
		Order("created_at").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantMixFactorRepo) ListMixLevel(dbc dbctx.Context, plantID, mixTypeID uuid.UUID) ([]*domain.PlantMixFactor, error) {
	if plantID == uuid.Nil || mixTypeID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.PlantMixFactor
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("plant_id = ? AND mix_type_id = ? AND product_id IS NULL", plantID, mixTypeID).
		Order("created_at").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantMixFactorRepo) ListPlantDefaults(dbc dbctx.Context, plantID uuid.UUID) ([]*domain.PlantMixFactor, error) {
	if plantID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.PlantMixFactor
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("plant_id = ? AND is_default = ?", plantID, true).
		Order("created_at").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantMixFactorRepo) UnsetDefaultsForPlant(dbc dbctx.Context, plantID uuid.UUID) error {
	if plantID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.PlantMixFactor{}).
		Where("plant_id = ? AND is_default = ?", plantID, true).
		Update("is_default", false).Error
}

func (r *plantMixFactorRepo) SetDefault(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.PlantMixFactor{}).
		Where("id = ?", id).
		Update("is_default", true).Error
}
