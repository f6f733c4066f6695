package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
)

func metric(label string, perUnit float64, unit string) *domain.ReportMetric {
	return &domain.ReportMetric{
		ID: uuid.New(), Label: label, PerUnitValue: perUnit, Unit: unit, IsActive: true,
	}
}

func equivalencyFixture(t *testing.T) EquivalencyService {
	t.Helper()
	return NewEquivalencyService(testLogger(t), newFakeResultRepo(), newFakeReferenceRepo())
}

func TestComputeUnitNormalization(t *testing.T) {
	svc := equivalencyFixture(t)

	// One flight = 500 kg = 0.5 t; 10 t is 20 flights.
	got := svc.Compute(10, []*domain.ReportMetric{metric("Return flight to Malaga", 500, "kg")})
	if got.Flights == nil || math.Abs(*got.Flights-20) > 1e-9 {
		t.Fatalf("flights = %v, want 20", got.Flights)
	}

	// Grams divide by 1e6.
	got = svc.Compute(2, []*domain.ReportMetric{metric("Tree seedling grown 10 years", 1_000_000, "g")})
	if got.Trees == nil || math.Abs(*got.Trees-2) > 1e-9 {
		t.Fatalf("trees = %v, want 2", got.Trees)
	}

	// Tonnes pass through.
	got = svc.Compute(9, []*domain.ReportMetric{metric("Average home for a year", 3, "tonnes")})
	if got.Homes == nil || math.Abs(*got.Homes-3) > 1e-9 {
		t.Fatalf("homes = %v, want 3", got.Homes)
	}
}

func TestComputeAppliesTransform(t *testing.T) {
	svc := equivalencyFixture(t)

	m := metric("Car driven for a year", 2, "tonnes")
	m.TransformOp = "*"
	m.TransformFactor = f64(2)
	// per unit becomes 4 t; 40 t is 10 cars.
	got := svc.Compute(40, []*domain.ReportMetric{m})
	if got.Cars == nil || math.Abs(*got.Cars-10) > 1e-9 {
		t.Fatalf("cars = %v, want 10", got.Cars)
	}
	if got.TimesAroundWorld == nil || math.Abs(*got.TimesAroundWorld-10.0/24900.0) > 1e-12 {
		t.Fatalf("times around world = %v, want cars/24900", got.TimesAroundWorld)
	}
}

func TestComputeStadiumIsInverse(t *testing.T) {
	svc := equivalencyFixture(t)
	m := metric("Wembley stadium volume", 1, "tonnes")

	at10 := svc.Compute(10, []*domain.ReportMetric{m})
	at20 := svc.Compute(20, []*domain.ReportMetric{m})
	if at10.Stadium == nil || at20.Stadium == nil {
		t.Fatal("stadium metric should compute")
	}
	if math.Abs(*at10.Stadium-113910) > 1e-6 {
		t.Fatalf("stadium at 10t = %v, want 113910", *at10.Stadium)
	}
	// Doubling the delta halves the count.
	if math.Abs(*at20.Stadium-*at10.Stadium/2) > 1e-9 {
		t.Fatalf("stadium at 20t = %v, want half of %v", *at20.Stadium, *at10.Stadium)
	}
}

func TestComputeZeroDeltaIsEmpty(t *testing.T) {
	svc := equivalencyFixture(t)
	got := svc.Compute(0, []*domain.ReportMetric{
		metric("Return flight", 500, "kg"),
		metric("Wembley stadium", 1, "tonnes"),
	})
	if got != (Equivalencies{}) {
		t.Fatalf("zero delta should compute nothing, got %+v", got)
	}
}

func TestComputeSkipsInactiveAndUnknown(t *testing.T) {
	svc := equivalencyFixture(t)
	inactive := metric("Return flight", 500, "kg")
	inactive.IsActive = false

	got := svc.Compute(10, []*domain.ReportMetric{
		inactive,
		metric("Bananas consumed", 1, "kg"),
	})
	if got.Flights != nil {
		t.Fatal("inactive metric should be skipped")
	}
	if got != (Equivalencies{}) {
		t.Fatalf("unknown label should be skipped, got %+v", got)
	}
}

func TestComputeFirstMetricOfAKindWins(t *testing.T) {
	svc := equivalencyFixture(t)
	got := svc.Compute(10, []*domain.ReportMetric{
		metric("Return flight economy", 1, "tonnes"),
		metric("Return flight business", 2, "tonnes"),
	})
	if got.Flights == nil || *got.Flights != 10 {
		t.Fatalf("flights = %v, want 10 from the first metric", got.Flights)
	}
}

func TestComputeFirstStadiumMetricWins(t *testing.T) {
	svc := equivalencyFixture(t)
	got := svc.Compute(10, []*domain.ReportMetric{
		metric("Wembley stadium volume", 1, "tonnes"),
		metric("Olympic stadium volume", 2, "tonnes"),
	})
	if got.Stadium == nil || math.Abs(*got.Stadium-113910) > 1e-6 {
		t.Fatalf("stadium = %v, want 113910 from the first metric", got.Stadium)
	}
}

func TestComputeForSchemeUsesSummaryTonnes(t *testing.T) {
	results := newFakeResultRepo()
	reference := newFakeReferenceRepo()
	schemeID := uuid.New()

	results.summaries[schemeID] = &domain.CarbonSummary{
		ID: uuid.New(), SchemeID: schemeID, TotalKgCO2e: 5000,
	}
	reference.metrics = []*domain.ReportMetric{metric("Return flight", 1, "tonnes")}

	svc := NewEquivalencyService(testLogger(t), results, reference)
	got, err := svc.ComputeForScheme(context.Background(), schemeID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 5000 kg = 5 t.
	if got.Flights == nil || math.Abs(*got.Flights-5) > 1e-9 {
		t.Fatalf("flights = %v, want 5", got.Flights)
	}

	// No summary yet means no equivalencies, not an error.
	empty, err := svc.ComputeForScheme(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("compute without summary: %v", err)
	}
	if empty != (Equivalencies{}) {
		t.Fatalf("got %+v, want empty", empty)
	}
}
