package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/clients/geocode"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

var (
	testLogOnce sync.Once
	testLog     *logger.Logger
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	testLogOnce.Do(func() {
		var err error
		testLog, err = logger.New("test")
		if err != nil {
			tb.Fatalf("init logger: %v", err)
		}
	})
	return testLog
}

func f64(v float64) *float64 { return &v }

func dbcOf(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx} }

// --- client fakes ---

type fakeGeocoder struct {
	coords map[string]geocode.LatLon
	err    error
}

func (f *fakeGeocoder) Lookup(_ context.Context, postcode string) (geocode.LatLon, error) {
	if f.err != nil {
		return geocode.LatLon{}, f.err
	}
	ll, ok := f.coords[postcode]
	if !ok {
		return geocode.LatLon{}, geocode.ErrNotFound
	}
	return ll, nil
}

type fakeRouter struct {
	km  float64
	err error
}

func (f *fakeRouter) RoadDistanceKm(_ context.Context, _, _ geocode.LatLon) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.km, nil
}

type fakeCalc struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeCalc) Recalculate(_ context.Context, schemeID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, schemeID)
	return nil
}

func (f *fakeCalc) Close() {}

// --- repo fakes ---

type fakeSchemeRepo struct {
	rows map[uuid.UUID]*domain.Scheme
}

func newFakeSchemeRepo(rows ...*domain.Scheme) *fakeSchemeRepo {
	r := &fakeSchemeRepo{rows: map[uuid.UUID]*domain.Scheme{}}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeSchemeRepo) Create(_ dbctx.Context, row *domain.Scheme) (*domain.Scheme, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.rows[row.ID] = row
	return row, nil
}

func (r *fakeSchemeRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.Scheme, error) {
	return r.rows[id], nil
}

func (r *fakeSchemeRepo) Update(_ dbctx.Context, row *domain.Scheme) error {
	r.rows[row.ID] = row
	return nil
}

func (r *fakeSchemeRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	row, ok := r.rows[id]
	if !ok {
		return nil
	}
	for col, v := range updates {
		switch col {
		case "locked":
			row.Locked = v.(bool)
		case "installation_mode":
			row.InstallationMode = v.(domain.UsageMode)
		case "materials_mode":
			row.MaterialsMode = v.(domain.UsageMode)
		case "a5_fuel_mode":
			row.A5FuelMode = v.(domain.UsageMode)
		}
	}
	return nil
}

func (r *fakeSchemeRepo) SetActiveScenario(_ dbctx.Context, schemeID uuid.UUID, scenarioID *uuid.UUID) error {
	if row, ok := r.rows[schemeID]; ok {
		row.ActiveScenarioID = scenarioID
	}
	return nil
}

type fakeProductRepo struct {
	rows []*domain.SchemeProduct
}

func (r *fakeProductRepo) Create(_ dbctx.Context, rows []*domain.SchemeProduct) ([]*domain.SchemeProduct, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeProductRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.SchemeProduct, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetBySchemeID(_ dbctx.Context, schemeID uuid.UUID) ([]*domain.SchemeProduct, error) {
	var out []*domain.SchemeProduct
	for _, row := range r.rows {
		if row.SchemeID == schemeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CountBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (int64, error) {
	rows, _ := r.GetBySchemeID(dbc, schemeID)
	return int64(len(rows)), nil
}

func (r *fakeProductRepo) DeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	drop := map[uuid.UUID]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !drop[row.ID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeProductRepo) DeleteBySchemeID(_ dbctx.Context, schemeID uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.SchemeID != schemeID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeItemRepo struct {
	rows []*domain.InstallationItem
}

func (r *fakeItemRepo) Create(_ dbctx.Context, rows []*domain.InstallationItem) ([]*domain.InstallationItem, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeItemRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.InstallationItem, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) GetBySchemeID(_ dbctx.Context, schemeID uuid.UUID) ([]*domain.InstallationItem, error) {
	var out []*domain.InstallationItem
	for _, row := range r.rows {
		if row.SchemeID == schemeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) GetBySchemeIDAndCategory(_ dbctx.Context, schemeID uuid.UUID, category domain.InstallationCategory) ([]*domain.InstallationItem, error) {
	var out []*domain.InstallationItem
	for _, row := range r.rows {
		if row.SchemeID == schemeID && row.Category == category {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) DeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	drop := map[uuid.UUID]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !drop[row.ID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeItemRepo) DeleteBySchemeID(_ dbctx.Context, schemeID uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.SchemeID != schemeID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeUsageRepo struct {
	rows []*domain.UsageEntry
}

func (r *fakeUsageRepo) Create(_ dbctx.Context, rows []*domain.UsageEntry) ([]*domain.UsageEntry, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeUsageRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.UsageEntry, error) {
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeUsageRepo) GetBySchemeID(_ dbctx.Context, schemeID uuid.UUID) ([]*domain.UsageEntry, error) {
	var out []*domain.UsageEntry
	for _, row := range r.rows {
		if row.SchemeID == schemeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) GetByItemIDs(_ dbctx.Context, itemIDs []uuid.UUID) ([]*domain.UsageEntry, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	var out []*domain.UsageEntry
	for _, row := range r.rows {
		if want[row.InstallationItemID] {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) DeleteByIDs(_ dbctx.Context, ids []uuid.UUID) error {
	drop := map[uuid.UUID]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.rows[:0]
	for _, row := range r.rows {
		if !drop[row.ID] {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeUsageRepo) DeleteAutoByItemIDs(_ dbctx.Context, itemIDs []uuid.UUID) error {
	want := map[uuid.UUID]bool{}
	for _, id := range itemIDs {
		want[id] = true
	}
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.AutoGenerated && want[row.InstallationItemID] {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

func (r *fakeUsageRepo) DeleteBySchemeID(_ dbctx.Context, schemeID uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.SchemeID != schemeID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeResultRepo struct {
	rows      []*domain.CarbonResultRow
	summaries map[uuid.UUID]*domain.CarbonSummary
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{summaries: map[uuid.UUID]*domain.CarbonSummary{}}
}

func (r *fakeResultRepo) CreateRows(_ dbctx.Context, rows []*domain.CarbonResultRow) ([]*domain.CarbonResultRow, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeResultRepo) GetRowsBySchemeID(_ dbctx.Context, schemeID uuid.UUID) ([]*domain.CarbonResultRow, error) {
	var out []*domain.CarbonResultRow
	for _, row := range r.rows {
		if row.SchemeID == schemeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeResultRepo) DeleteRowsBySchemeID(_ dbctx.Context, schemeID uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.SchemeID != schemeID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeResultRepo) UpsertSummary(_ dbctx.Context, row *domain.CarbonSummary) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.summaries[row.SchemeID] = row
	return nil
}

func (r *fakeResultRepo) GetSummaryBySchemeID(_ dbctx.Context, schemeID uuid.UUID) (*domain.CarbonSummary, error) {
	return r.summaries[schemeID], nil
}

func (r *fakeResultRepo) DeleteSummaryBySchemeID(_ dbctx.Context, schemeID uuid.UUID) error {
	delete(r.summaries, schemeID)
	return nil
}

type fakeScenarioRepo struct {
	rows map[uuid.UUID]*domain.ScenarioSnapshot
}

func newFakeScenarioRepo() *fakeScenarioRepo {
	return &fakeScenarioRepo{rows: map[uuid.UUID]*domain.ScenarioSnapshot{}}
}

func (r *fakeScenarioRepo) Create(_ dbctx.Context, row *domain.ScenarioSnapshot) (*domain.ScenarioSnapshot, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	r.rows[row.ID] = row
	return row, nil
}

func (r *fakeScenarioRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*domain.ScenarioSnapshot, error) {
	return r.rows[id], nil
}

func (r *fakeScenarioRepo) GetBySchemeID(_ dbctx.Context, schemeID uuid.UUID) ([]*domain.ScenarioSnapshot, error) {
	var out []*domain.ScenarioSnapshot
	for _, row := range r.rows {
		if row.SchemeID == schemeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeScenarioRepo) CountBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (int64, error) {
	rows, _ := r.GetBySchemeID(dbc, schemeID)
	return int64(len(rows)), nil
}

func (r *fakeScenarioRepo) Update(_ dbctx.Context, row *domain.ScenarioSnapshot) error {
	r.rows[row.ID] = row
	return nil
}

func (r *fakeScenarioRepo) DeleteByID(_ dbctx.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type fakeReferenceRepo struct {
	plants   map[uuid.UUID]*domain.Plant
	mixes    map[uuid.UUID]*domain.MixType
	products map[uuid.UUID]*domain.Product
	setups   map[uuid.UUID]*domain.InstallationSetup
	metrics  []*domain.ReportMetric
}

func newFakeReferenceRepo() *fakeReferenceRepo {
	return &fakeReferenceRepo{
		plants:   map[uuid.UUID]*domain.Plant{},
		mixes:    map[uuid.UUID]*domain.MixType{},
		products: map[uuid.UUID]*domain.Product{},
		setups:   map[uuid.UUID]*domain.InstallationSetup{},
	}
}

func (r *fakeReferenceRepo) GetPlantByID(_ dbctx.Context, id uuid.UUID) (*domain.Plant, error) {
	return r.plants[id], nil
}

func (r *fakeReferenceRepo) GetMixTypesByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*domain.MixType, error) {
	var out []*domain.MixType
	for _, id := range ids {
		if m, ok := r.mixes[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeReferenceRepo) GetProductsByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeReferenceRepo) GetFuelTypeByID(_ dbctx.Context, id uuid.UUID) (*domain.FuelType, error) {
	return nil, nil
}

func (r *fakeReferenceRepo) GetInstallationSetupByID(_ dbctx.Context, id uuid.UUID) (*domain.InstallationSetup, error) {
	return r.setups[id], nil
}

func (r *fakeReferenceRepo) GetReportMetrics(_ dbctx.Context, activeOnly bool) ([]*domain.ReportMetric, error) {
	if !activeOnly {
		return r.metrics, nil
	}
	var out []*domain.ReportMetric
	for _, m := range r.metrics {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeFactorRepo struct {
	rows []*domain.PlantMixFactor

	unsetCalls []uuid.UUID
	setCalls   []uuid.UUID
	unsetErr   error
	setErr     error
}

func (r *fakeFactorRepo) Create(_ dbctx.Context, rows []*domain.PlantMixFactor) ([]*domain.PlantMixFactor, error) {
	r.rows = append(r.rows, rows...)
	return rows, nil
}

func (r *fakeFactorRepo) ListExact(_ dbctx.Context, plantID, mixTypeID, productID uuid.UUID) ([]*domain.PlantMixFactor, error) {
	var out []*domain.PlantMixFactor
	for _, row := range r.rows {
		if row.PlantID == plantID && row.MixTypeID == mixTypeID && row.ProductID != nil && *row.ProductID == productID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeFactorRepo) ListMixLevel(_ dbctx.Context, plantID, mixTypeID uuid.UUID) ([]*domain.PlantMixFactor, error) {
	var out []*domain.PlantMixFactor
	for _, row := range r.rows {
		if row.PlantID == plantID && row.MixTypeID == mixTypeID && row.ProductID == nil {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeFactorRepo) ListPlantDefaults(_ dbctx.Context, plantID uuid.UUID) ([]*domain.PlantMixFactor, error) {
	var out []*domain.PlantMixFactor
	for _, row := range r.rows {
		if row.PlantID == plantID && row.IsDefault {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeFactorRepo) UnsetDefaultsForPlant(_ dbctx.Context, plantID uuid.UUID) error {
	if r.unsetErr != nil {
		return r.unsetErr
	}
	r.unsetCalls = append(r.unsetCalls, plantID)
	for _, row := range r.rows {
		if row.PlantID == plantID {
			row.IsDefault = false
		}
	}
	return nil
}

func (r *fakeFactorRepo) SetDefault(_ dbctx.Context, id uuid.UUID) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.setCalls = append(r.setCalls, id)
	for _, row := range r.rows {
		if row.ID == id {
			row.IsDefault = true
		}
	}
	return nil
}
