package testutil

import (
	"testing"

	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
)

func SeedScheme(tb testing.TB, dbc dbctx.Context, name string) *domain.Scheme {
	tb.Helper()
	row := &domain.Scheme{
		ID:               uuid.New(),
		Name:             name,
		DistanceUnit:     domain.UnitKm,
		InstallationMode: domain.ModeAuto,
		MaterialsMode:    domain.ModeAuto,
		A5FuelMode:       domain.ModeAuto,
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed scheme: %v", err)
	}
	return row
}

func SeedPlant(tb testing.TB, dbc dbctx.Context, name, postcode string) *domain.Plant {
	tb.Helper()
	row := &domain.Plant{ID: uuid.New(), Name: name, Postcode: postcode}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed plant: %v", err)
	}
	return row
}

func SeedMixType(tb testing.TB, dbc dbctx.Context, name string) *domain.MixType {
	tb.Helper()
	row := &domain.MixType{ID: uuid.New(), Name: name}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed mix type: %v", err)
	}
	return row
}

func SeedProduct(tb testing.TB, dbc dbctx.Context, name string) *domain.Product {
	tb.Helper()
	row := &domain.Product{ID: uuid.New(), Name: name}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return row
}

func SeedSchemeProduct(tb testing.TB, dbc dbctx.Context, schemeID, plantID, mixID, productID uuid.UUID, tonnage float64) *domain.SchemeProduct {
	tb.Helper()
	row := &domain.SchemeProduct{
		ID:           uuid.New(),
		SchemeID:     schemeID,
		ProductID:    productID,
		PlantID:      plantID,
		MixTypeID:    mixID,
		DeliveryType: domain.DeliveryTypeDelivery,
		Tonnage:      tonnage,
		DistanceKm:   10,
		EnteredUnit:  domain.UnitKm,
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed scheme product: %v", err)
	}
	return row
}
