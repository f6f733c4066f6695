package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/clients/geocode"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
)

type schemeFixture struct {
	svc       SchemeService
	usage     UsageService
	schemes   *fakeSchemeRepo
	products  *fakeProductRepo
	items     *fakeItemRepo
	usageRepo *fakeUsageRepo
	results   *fakeResultRepo
	reference *fakeReferenceRepo
	factors   *fakeFactorRepo
	geo       *fakeGeocoder
	router    *fakeRouter
	calc      *fakeCalc
}

func newSchemeFixture(t *testing.T) *schemeFixture {
	t.Helper()
	f := &schemeFixture{
		schemes:   newFakeSchemeRepo(),
		products:  &fakeProductRepo{},
		items:     &fakeItemRepo{},
		usageRepo: &fakeUsageRepo{},
		results:   newFakeResultRepo(),
		reference: newFakeReferenceRepo(),
		factors:   &fakeFactorRepo{},
		geo:       &fakeGeocoder{coords: map[string]geocode.LatLon{}},
		router:    &fakeRouter{},
		calc:      &fakeCalc{},
	}
	log := testLogger(t)
	distance := NewDistanceService(log, f.geo, f.router)
	f.usage = NewUsageService(nil, log, f.schemes, f.products, f.items, f.usageRepo, distance)
	a1 := NewA1Service(log, newFactorServiceForTest(t, f.factors))
	lifecycle := NewLifecycleService(log, f.results, f.products, f.reference)
	f.svc = NewSchemeService(nil, log, f.schemes, f.products, f.results, f.reference,
		distance, f.usage, a1, lifecycle, f.calc)
	return f
}

func (f *schemeFixture) createScheme(t *testing.T) *domain.Scheme {
	t.Helper()
	scheme, err := f.svc.Create(context.Background(), CreateSchemeInput{
		Name:         "B6162 overlay",
		Area:         4200,
		SitePostcode: "HG3 1QE",
		BasePostcode: "LS1 1AA",
		DistanceUnit: "miles",
	})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}
	return scheme
}

func TestSchemeCreateDefaults(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)

	if scheme.DistanceUnit != domain.UnitMi {
		t.Fatalf("unit = %q, want mi", scheme.DistanceUnit)
	}
	if scheme.InstallationMode != domain.ModeAuto || scheme.MaterialsMode != domain.ModeAuto || scheme.A5FuelMode != domain.ModeAuto {
		t.Fatal("new schemes default every mode to auto")
	}
	if scheme.Locked {
		t.Fatal("new schemes start unlocked")
	}

	if _, err := f.svc.Create(context.Background(), CreateSchemeInput{Name: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: got %v", err)
	}
	if _, err := f.svc.Create(context.Background(), CreateSchemeInput{Name: "x", DistanceUnit: "leagues"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad unit: got %v", err)
	}
}

func TestSchemeGetNotFound(t *testing.T) {
	f := newSchemeFixture(t)
	if _, err := f.svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAddMaterialLineLiteralMilesStoredAsKm(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)

	line, err := f.svc.AddMaterialLine(context.Background(), scheme.ID, AddMaterialLineInput{
		ProductID:    uuid.New(),
		PlantID:      uuid.New(),
		MixTypeID:    uuid.New(),
		DeliveryType: "delivery",
		Tonnage:      250,
		Distance:     f64(10),
		Unit:         "miles",
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if math.Abs(line.DistanceKm-16.0934) > 1e-9 {
		t.Fatalf("stored km = %v, want 16.0934", line.DistanceKm)
	}
	if line.EnteredUnit != domain.UnitMi {
		t.Fatalf("entered unit = %q, want mi", line.EnteredUnit)
	}
}

func TestAddMaterialLineResolvesPlantToSiteDistance(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)

	plant := &domain.Plant{ID: uuid.New(), Name: "Leeds asphalt", Postcode: "LS9 9AA"}
	f.reference.plants[plant.ID] = plant
	f.geo.coords["LS9 9AA"] = geocode.LatLon{Lat: 53.79, Lon: -1.5}
	f.geo.coords["HG3 1QE"] = geocode.LatLon{Lat: 54.02, Lon: -1.65}
	f.router.km = 33.7

	line, err := f.svc.AddMaterialLine(context.Background(), scheme.ID, AddMaterialLineInput{
		ProductID:    uuid.New(),
		PlantID:      plant.ID,
		MixTypeID:    uuid.New(),
		DeliveryType: "delivery",
		Tonnage:      100,
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if line.DistanceKm != 33.7 {
		t.Fatalf("distance = %v, want routed 33.7", line.DistanceKm)
	}
}

func TestAddMaterialLineValidation(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()
	valid := AddMaterialLineInput{
		ProductID: uuid.New(), PlantID: uuid.New(), MixTypeID: uuid.New(),
		DeliveryType: "delivery", Tonnage: 10, Distance: f64(1),
	}

	missing := valid
	missing.ProductID = uuid.Nil
	if _, err := f.svc.AddMaterialLine(ctx, scheme.ID, missing); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing product: got %v", err)
	}

	badType := valid
	badType.DeliveryType = "collection"
	if _, err := f.svc.AddMaterialLine(ctx, scheme.ID, badType); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad delivery type: got %v", err)
	}

	zeroTonnage := valid
	zeroTonnage.Tonnage = 0
	if _, err := f.svc.AddMaterialLine(ctx, scheme.ID, zeroTonnage); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero tonnage: got %v", err)
	}
}

func TestAddMaterialLineLockedScheme(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()

	if err := f.svc.SetLock(ctx, scheme.ID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	_, err := f.svc.AddMaterialLine(ctx, scheme.ID, AddMaterialLineInput{
		ProductID: uuid.New(), PlantID: uuid.New(), MixTypeID: uuid.New(),
		DeliveryType: "delivery", Tonnage: 10, Distance: f64(1),
	})
	if !errors.Is(err, ErrSchemeLocked) {
		t.Fatalf("got %v, want ErrSchemeLocked", err)
	}
}

func TestDeleteLastMaterialLineClearsResults(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()

	line, err := f.svc.AddMaterialLine(ctx, scheme.ID, AddMaterialLineInput{
		ProductID: uuid.New(), PlantID: uuid.New(), MixTypeID: uuid.New(),
		DeliveryType: "delivery", Tonnage: 10, Distance: f64(1),
	})
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	f.results.rows = append(f.results.rows, summaryRow(scheme.ID, "A1", 100, 1))
	f.results.summaries[scheme.ID] = &domain.CarbonSummary{ID: uuid.New(), SchemeID: scheme.ID, TotalKgCO2e: 100}

	if err := f.svc.DeleteMaterialLine(ctx, scheme.ID, line.ID); err != nil {
		t.Fatalf("delete line: %v", err)
	}
	if len(f.results.rows) != 0 {
		t.Fatal("deleting the last line should clear result rows")
	}
	if f.results.summaries[scheme.ID] != nil {
		t.Fatal("deleting the last line should clear the summary")
	}
}

func TestDeleteMaterialLineKeepsResultsWhileLinesRemain(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()

	var lines []*domain.SchemeProduct
	for i := 0; i < 2; i++ {
		line, err := f.svc.AddMaterialLine(ctx, scheme.ID, AddMaterialLineInput{
			ProductID: uuid.New(), PlantID: uuid.New(), MixTypeID: uuid.New(),
			DeliveryType: "delivery", Tonnage: 10, Distance: f64(1),
		})
		if err != nil {
			t.Fatalf("add line %d: %v", i, err)
		}
		lines = append(lines, line)
	}
	f.results.rows = append(f.results.rows, summaryRow(scheme.ID, "A1", 100, 1))

	if err := f.svc.DeleteMaterialLine(ctx, scheme.ID, lines[0].ID); err != nil {
		t.Fatalf("delete line: %v", err)
	}
	if len(f.results.rows) != 1 {
		t.Fatal("results should survive while other lines remain")
	}

	if err := f.svc.DeleteMaterialLine(ctx, scheme.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown line: got %v", err)
	}
}

func TestSetModesA5SwitchToManualClearsAutoRows(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()

	item := &domain.InstallationItem{ID: uuid.New(), SchemeID: scheme.ID, Name: "paver", Category: domain.CategoryPlant, Quantity: 1}
	f.items.rows = append(f.items.rows, item)
	f.usageRepo.rows = append(f.usageRepo.rows,
		&domain.UsageEntry{ID: uuid.New(), SchemeID: scheme.ID, InstallationItemID: item.ID, Litres: f64(10), AutoGenerated: true},
		&domain.UsageEntry{ID: uuid.New(), SchemeID: scheme.ID, InstallationItemID: item.ID, Litres: f64(20)},
	)

	manual := "manual"
	updated, err := f.svc.SetModes(ctx, scheme.ID, SetModesInput{A5FuelMode: &manual})
	if err != nil {
		t.Fatalf("set modes: %v", err)
	}
	if updated.A5FuelMode != domain.ModeManual {
		t.Fatalf("mode = %q, want manual", updated.A5FuelMode)
	}
	if len(f.usageRepo.rows) != 1 || f.usageRepo.rows[0].AutoGenerated {
		t.Fatalf("rows after switch = %d, want only the manual entry", len(f.usageRepo.rows))
	}
}

func TestSetModesLockedScheme(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()

	if err := f.svc.SetLock(ctx, scheme.ID, true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	got, err := f.svc.Get(ctx, scheme.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Locked {
		t.Fatal("lock should persist")
	}

	manual := "manual"
	if _, err := f.svc.SetModes(ctx, scheme.ID, SetModesInput{A5FuelMode: &manual}); !errors.Is(err, ErrSchemeLocked) {
		t.Fatalf("got %v, want ErrSchemeLocked", err)
	}
	if got.A5FuelMode != domain.ModeAuto {
		t.Fatalf("mode = %q, locked scheme must keep auto", got.A5FuelMode)
	}
}

func TestSetModesRejectsUnknownMode(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	bad := "hybrid"
	if _, err := f.svc.SetModes(context.Background(), scheme.ID, SetModesInput{MaterialsMode: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestSchemeA1View(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	ctx := context.Background()

	plantID := uuid.New()
	mixID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	f.factors.rows = []*domain.PlantMixFactor{
		{ID: uuid.New(), PlantID: plantID, MixTypeID: mixID, ProductID: &productA, FactorKgPerTonne: f64(40), RecycledPct: f64(10)},
		{ID: uuid.New(), PlantID: plantID, MixTypeID: mixID, ProductID: &productB, FactorKgPerTonne: f64(60), RecycledPct: f64(30)},
	}
	for _, p := range []struct {
		id      uuid.UUID
		tonnage float64
	}{{productA, 100}, {productB, 100}} {
		if _, err := f.svc.AddMaterialLine(ctx, scheme.ID, AddMaterialLineInput{
			ProductID: p.id, PlantID: plantID, MixTypeID: mixID,
			DeliveryType: "delivery", Tonnage: p.tonnage, Distance: f64(5),
		}); err != nil {
			t.Fatalf("add line: %v", err)
		}
	}

	view, err := f.svc.A1View(ctx, scheme.ID)
	if err != nil {
		t.Fatalf("a1 view: %v", err)
	}
	if view.BlendedFactorKgPerTonne == nil || *view.BlendedFactorKgPerTonne != 50 {
		t.Fatalf("blended factor = %v, want 50", view.BlendedFactorKgPerTonne)
	}
	if view.RecycledPct == nil || *view.RecycledPct != 20 {
		t.Fatalf("recycled pct = %v, want 20", view.RecycledPct)
	}
	if view.DeliveredTonnage != 200 {
		t.Fatalf("delivered tonnage = %v, want 200", view.DeliveredTonnage)
	}
}

func TestRecalculateRunsProcedureThenBuildsView(t *testing.T) {
	f := newSchemeFixture(t)
	scheme := f.createScheme(t)
	f.results.rows = append(f.results.rows, summaryRow(scheme.ID, "A1", 500, 2))

	view, err := f.svc.Recalculate(context.Background(), scheme.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if len(f.calc.calls) != 1 {
		t.Fatalf("calc calls = %d, want 1", len(f.calc.calls))
	}
	if len(view.Stages) != 1 || view.Stages[0].Stage != "A1" {
		t.Fatalf("view stages = %+v", view.Stages)
	}

	f.calc.err = errors.New("db down")
	if _, err := f.svc.Recalculate(context.Background(), scheme.ID); err == nil {
		t.Fatal("calc failure should propagate")
	}
}
