package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheme is the unit of work: one material-delivery job whose embodied carbon
// is being estimated. The three mode flags are independent; A5FuelMode gates
// whether installation fuel/transport usage is derived from tonnage or entered
// by hand.
type Scheme struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`

	// Surface area in m2, used for per-tonne style reporting.
	Area float64 `gorm:"column:area;not null;default:0" json:"area"`

	SitePostcode string `gorm:"column:site_postcode" json:"site_postcode"`
	BasePostcode string `gorm:"column:base_postcode" json:"base_postcode"`

	DistanceUnit DistanceUnit `gorm:"column:distance_unit;not null;default:'km'" json:"distance_unit"`

	InstallationMode UsageMode `gorm:"column:installation_mode;not null;default:'auto'" json:"installation_mode"`
	MaterialsMode    UsageMode `gorm:"column:materials_mode;not null;default:'auto'" json:"materials_mode"`
	A5FuelMode       UsageMode `gorm:"column:a5_fuel_mode;not null;default:'auto'" json:"a5_fuel_mode"`

	Locked bool `gorm:"column:locked;not null;default:false" json:"locked"`

	ActiveScenarioID *uuid.UUID `gorm:"type:uuid;column:active_scenario_id" json:"active_scenario_id,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Scheme) TableName() string { return "scheme" }

// SchemeProduct is one material delivery line. DistanceKm is always the
// canonical km value; EnteredUnit remembers what the user typed so display can
// convert back losslessly.
type SchemeProduct struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchemeID uuid.UUID `gorm:"type:uuid;not null;index" json:"scheme_id"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	PlantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"plant_id"`
	MixTypeID uuid.UUID `gorm:"type:uuid;not null;index" json:"mix_type_id"`

	DeliveryType DeliveryType `gorm:"column:delivery_type;not null;index" json:"delivery_type"`

	Tonnage     float64      `gorm:"column:tonnage;not null" json:"tonnage"`
	DistanceKm  float64      `gorm:"column:distance_km;not null" json:"distance_km"`
	EnteredUnit DistanceUnit `gorm:"column:entered_unit;not null;default:'km'" json:"entered_unit"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SchemeProduct) TableName() string { return "scheme_product" }
