package domain

import "strings"

// Free-text category/mode/unit strings from clients and legacy reference data
// are normalized once at the boundary into these closed sets. Everything past
// the handlers works with the typed values only.

type DistanceUnit string

const (
	UnitKm DistanceUnit = "km"
	UnitMi DistanceUnit = "mi"
)

const MilesToKm = 1.60934

func ParseDistanceUnit(s string) (DistanceUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometre", "kilometres", "kilometer", "kilometers":
		return UnitKm, true
	case "mi", "mile", "miles":
		return UnitMi, true
	}
	return "", false
}

// ToKm converts a distance in this unit to the canonical storage unit.
func (u DistanceUnit) ToKm(v float64) float64 {
	if u == UnitMi {
		return v * MilesToKm
	}
	return v
}

// FromKm converts a stored km distance back to this unit for display.
func (u DistanceUnit) FromKm(km float64) float64 {
	if u == UnitMi {
		return km / MilesToKm
	}
	return km
}

type UsageMode string

const (
	ModeAuto   UsageMode = "auto"
	ModeManual UsageMode = "manual"
)

func ParseUsageMode(s string) (UsageMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "automatic":
		return ModeAuto, true
	case "manual":
		return ModeManual, true
	}
	return "", false
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypeReturn   DeliveryType = "return"
	DeliveryTypeTip      DeliveryType = "tip"
)

func ParseDeliveryType(s string) (DeliveryType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delivery", "deliveries":
		return DeliveryTypeDelivery, true
	case "return", "returns":
		return DeliveryTypeReturn, true
	case "tip", "tips", "tipping":
		return DeliveryTypeTip, true
	}
	return "", false
}

type InstallationCategory string

const (
	CategoryPlant     InstallationCategory = "plant"
	CategoryTransport InstallationCategory = "transport"
	CategoryMaterial  InstallationCategory = "material"
	CategoryFuel      InstallationCategory = "fuel"
)

// ParseInstallationCategory tolerates the free-text category labels carried by
// legacy installation reference data ("Plant ", "PLANT fuel", "Transport -
// wagons"). Transport is matched before plant so "plant transport" rows land
// on transport, matching how the reference data is keyed.
func ParseInstallationCategory(s string) (InstallationCategory, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return "", false
	case strings.Contains(v, "transport"):
		return CategoryTransport, true
	case strings.Contains(v, "plant"):
		return CategoryPlant, true
	case strings.Contains(v, "material"):
		return CategoryMaterial, true
	case strings.Contains(v, "fuel"):
		return CategoryFuel, true
	}
	return "", false
}
