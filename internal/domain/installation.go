package domain

import (
	"time"

	"github.com/google/uuid"
)

// InstallationItem is a piece of installation-phase equipment, haulage or
// consumable attached to a scheme. Rates are copied from the reference setup
// at insert time so later edits to reference data do not rewrite history.
type InstallationItem struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchemeID uuid.UUID `gorm:"type:uuid;not null;index" json:"scheme_id"`

	SetupID  *uuid.UUID           `gorm:"type:uuid;column:setup_id" json:"setup_id,omitempty"`
	Name     string               `gorm:"column:name;not null" json:"name"`
	Category InstallationCategory `gorm:"column:category;not null;index" json:"category"`

	// Rate snapshot, copied on insert from the installation setup.
	SpreadRate     float64 `gorm:"column:spread_rate;not null;default:0" json:"spread_rate"`
	LitresPerTonne float64 `gorm:"column:litres_per_tonne;not null;default:0" json:"litres_per_tonne"`
	FactorPerTonne float64 `gorm:"column:factor_per_tonne;not null;default:0" json:"factor_per_tonne"`
	FactorPerLitre float64 `gorm:"column:factor_per_litre;not null;default:0" json:"factor_per_litre"`
	FactorPerKm    float64 `gorm:"column:factor_per_km;not null;default:0" json:"factor_per_km"`

	FuelTypeID *uuid.UUID `gorm:"type:uuid;column:fuel_type_id" json:"fuel_type_id,omitempty"`

	Quantity float64 `gorm:"column:quantity;not null;default:1" json:"quantity"`

	// Material-category items only: overrides the scheme's delivered tonnage.
	TonnageOverride *float64 `gorm:"column:tonnage_override" json:"tonnage_override,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (InstallationItem) TableName() string { return "scheme_installation_item" }

// UsageEntry records fuel or transport usage for one installation item over a
// period. Plant rows carry Litres, transport rows carry DistanceKm; the two
// are mutually exclusive. AutoGenerated marks rows the system derived from
// tonnage so regeneration can replace them without touching manual entries.
type UsageEntry struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchemeID           uuid.UUID `gorm:"type:uuid;not null;index" json:"scheme_id"`
	InstallationItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"installation_item_id"`

	PeriodStart *time.Time `gorm:"column:period_start" json:"period_start,omitempty"`
	PeriodEnd   *time.Time `gorm:"column:period_end" json:"period_end,omitempty"`

	Litres     *float64 `gorm:"column:litres" json:"litres,omitempty"`
	DistanceKm *float64 `gorm:"column:distance_km" json:"distance_km,omitempty"`
	OneWay     bool     `gorm:"column:one_way;not null;default:false" json:"one_way"`

	AutoGenerated bool `gorm:"column:auto_generated;not null;default:false;index" json:"auto_generated"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UsageEntry) TableName() string { return "scheme_a5_usage_entry" }
