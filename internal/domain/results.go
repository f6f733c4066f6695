package domain

import (
	"time"

	"github.com/google/uuid"
)

// CarbonResultRow is one stage-tagged output row of the external carbon
// roll-up procedure. Rows with no product/mix/detail key are the stage's
// summary; the rest are drill-down detail. The whole set is replaced on every
// recalculation.
type CarbonResultRow struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchemeID uuid.UUID `gorm:"type:uuid;not null;index" json:"scheme_id"`

	Stage string `gorm:"column:stage;not null;index" json:"stage"`

	ProductID   *uuid.UUID `gorm:"type:uuid;column:product_id" json:"product_id,omitempty"`
	MixTypeID   *uuid.UUID `gorm:"type:uuid;column:mix_type_id" json:"mix_type_id,omitempty"`
	DetailLabel string     `gorm:"column:detail_label" json:"detail_label,omitempty"`

	TotalKgCO2e    float64 `gorm:"column:total_kgco2e;not null" json:"total_kgco2e"`
	PerTonneKgCO2e float64 `gorm:"column:per_tonne_kgco2e;not null" json:"per_tonne_kgco2e"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CarbonResultRow) TableName() string { return "scheme_carbon_result" }

// IsStageSummary reports whether the row is the stage's summary line rather
// than a drill-down detail.
func (r *CarbonResultRow) IsStageSummary() bool {
	return r.ProductID == nil && r.MixTypeID == nil && r.DetailLabel == ""
}

// CarbonSummary is the scheme-wide roll-up total. One row per scheme,
// replaced on every recalculation.
type CarbonSummary struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchemeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"scheme_id"`

	TotalKgCO2e    float64 `gorm:"column:total_kgco2e;not null" json:"total_kgco2e"`
	PerTonneKgCO2e float64 `gorm:"column:per_tonne_kgco2e;not null" json:"per_tonne_kgco2e"`
	TotalTonnage   float64 `gorm:"column:total_tonnage;not null" json:"total_tonnage"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CarbonSummary) TableName() string { return "scheme_carbon_summary" }
