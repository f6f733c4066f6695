package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reference rows are read-only inputs to this service; their maintenance UI
// lives elsewhere.

type Plant struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Postcode string    `gorm:"column:postcode" json:"postcode"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Plant) TableName() string { return "plant" }

type MixType struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (MixType) TableName() string { return "mix_type" }

type Product struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

type FuelType struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	// kgCO2e per litre burned.
	FactorPerLitre float64 `gorm:"column:factor_per_litre;not null;default:0" json:"factor_per_litre"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (FuelType) TableName() string { return "fuel_type" }

// InstallationSetup is the reference template an InstallationItem copies its
// rates from on insert.
type InstallationSetup struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Category string    `gorm:"column:category;not null" json:"category"`

	SpreadRate     float64 `gorm:"column:spread_rate;not null;default:0" json:"spread_rate"`
	LitresPerTonne float64 `gorm:"column:litres_per_tonne;not null;default:0" json:"litres_per_tonne"`
	FactorPerTonne float64 `gorm:"column:factor_per_tonne;not null;default:0" json:"factor_per_tonne"`
	FactorPerLitre float64 `gorm:"column:factor_per_litre;not null;default:0" json:"factor_per_litre"`
	FactorPerKm    float64 `gorm:"column:factor_per_km;not null;default:0" json:"factor_per_km"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (InstallationSetup) TableName() string { return "installation_setup" }

// ReportMetric is one configurable equivalency reference: the per-unit CO2e
// of a relatable thing (a flight, a tree, a home). The optional linear
// transform is applied to the normalized per-unit tonnes before use.
type ReportMetric struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Label string    `gorm:"not null" json:"label"`

	PerUnitValue float64 `gorm:"column:per_unit_value;not null" json:"per_unit_value"`
	// g | kg | tonnes
	Unit string `gorm:"column:unit;not null;default:'kg'" json:"unit"`

	// + - * / against TransformFactor; empty means no transform.
	TransformOp     string   `gorm:"column:transform_op" json:"transform_op,omitempty"`
	TransformFactor *float64 `gorm:"column:transform_factor" json:"transform_factor,omitempty"`

	IsActive bool `gorm:"column:is_active;not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReportMetric) TableName() string { return "report_metric" }
