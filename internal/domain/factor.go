package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlantMixFactor keys an emission factor and recycled-content percentage by
// (plant, mix type, product). ProductID is nil for mix-level rows that apply
// to any product of the mix. At most one row per plant carries IsDefault; it
// is the last resort of the resolution chain.
type PlantMixFactor struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlantID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_pmf_plant_mix" json:"plant_id"`
	MixTypeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_pmf_plant_mix" json:"mix_type_id"`
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`

	// kgCO2e per tonne of product.
	FactorKgPerTonne *float64 `gorm:"column:factor_kg_per_tonne" json:"factor_kg_per_tonne,omitempty"`
	RecycledPct      *float64 `gorm:"column:recycled_pct" json:"recycled_pct,omitempty"`

	IsDefault bool `gorm:"column:is_default;not null;default:false;index" json:"is_default"`

	ValidFrom *time.Time `gorm:"column:valid_from" json:"valid_from,omitempty"`
	ValidTo   *time.Time `gorm:"column:valid_to" json:"valid_to,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PlantMixFactor) TableName() string { return "plant_mix_factor" }

// ValidAt reports whether the row's validity window contains t. Open ends are
// unbounded.
func (f *PlantMixFactor) ValidAt(t time.Time) bool {
	if f.ValidFrom != nil && t.Before(*f.ValidFrom) {
		return false
	}
	if f.ValidTo != nil && t.After(*f.ValidTo) {
		return false
	}
	return true
}
