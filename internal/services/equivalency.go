package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// stadiumConstant encodes the fixed-capacity-stadium assumption behind the
// inverse stadium equivalency. Keep the literal value; it is reference data,
// not a derived number.
const stadiumConstant = 1139100.0

// milesAroundEarth converts a car-miles equivalency into laps of the planet.
const milesAroundEarth = 24900.0

// Equivalencies translates a tonnes-of-CO2e figure into relatable counts.
// Nil means the metric was absent, inactive, or not computable.
type Equivalencies struct {
	Flights          *float64 `json:"flights,omitempty"`
	Cars             *float64 `json:"cars,omitempty"`
	Homes            *float64 `json:"homes,omitempty"`
	Trees            *float64 `json:"trees,omitempty"`
	People           *float64 `json:"people,omitempty"`
	Energy           *float64 `json:"energy,omitempty"`
	Stadium          *float64 `json:"stadium,omitempty"`
	TimesAroundWorld *float64 `json:"times_around_world,omitempty"`
}

type EquivalencyService interface {
	// Compute converts a tonnage delta using the given reference metrics.
	Compute(tonnesDelta float64, metrics []*domain.ReportMetric) Equivalencies

	// ComputeForScheme runs Compute against the scheme's summary total and
	// the active reference metrics.
	ComputeForScheme(ctx context.Context, schemeID uuid.UUID) (Equivalencies, error)
}

type equivalencyService struct {
	log       *logger.Logger
	results   repos.CarbonResultRepo
	reference repos.ReferenceRepo
}

func NewEquivalencyService(baseLog *logger.Logger, results repos.CarbonResultRepo, reference repos.ReferenceRepo) EquivalencyService {
	return &equivalencyService{
		log:       baseLog.With("service", "EquivalencyService"),
		results:   results,
		reference: reference,
	}
}

type metricKind int

const (
	kindUnknown metricKind = iota
	kindFlights
	kindCars
	kindHomes
	kindTrees
	kindPeople
	kindEnergy
	kindStadium
)

// metricAliases is checked in order; the first alias contained in the
// normalized label wins. Labels are free text maintained by hand, so matching
// is substring-based rather than exact.
var metricAliases = []struct {
	kind    metricKind
	aliases []string
}{
	{kindStadium, []string{"stadium", "arena", "wembley"}},
	{kindFlights, []string{"flight", "plane", "air travel"}},
	{kindCars, []string{"car", "vehicle", "driving"}},
	{kindHomes, []string{"home", "house"}},
	{kindTrees, []string{"tree"}},
	{kindPeople, []string{"person", "people", "capita"}},
	{kindEnergy, []string{"energy", "electric", "kwh"}},
}

func classifyMetricLabel(label string) metricKind {
	norm := strings.ToLower(strings.TrimSpace(label))
	for _, entry := range metricAliases {
		for _, alias := range entry.aliases {
			if strings.Contains(norm, alias) {
				return entry.kind
			}
		}
	}
	return kindUnknown
}

// perUnitTonnes normalizes the metric's per-unit value to tonnes and applies
// its optional linear transform.
func perUnitTonnes(m *domain.ReportMetric) float64 {
	v := m.PerUnitValue
	switch strings.ToLower(strings.TrimSpace(m.Unit)) {
	case "g", "gram", "grams":
		v /= 1e6
	case "kg", "kilogram", "kilograms":
		v /= 1000
	}
	if m.TransformFactor != nil {
		f := *m.TransformFactor
		switch strings.TrimSpace(m.TransformOp) {
		case "+":
			v += f
		case "-":
			v -= f
		case "*", "x", "×":
			v *= f
		case "/", "÷":
			if f != 0 {
				v /= f
			}
		}
	}
	return v
}

func (s *equivalencyService) Compute(tonnesDelta float64, metrics []*domain.ReportMetric) Equivalencies {
	var out Equivalencies
	if tonnesDelta == 0 {
		return out
	}

	for _, m := range metrics {
		if !m.IsActive {
			continue
		}
		kind := classifyMetricLabel(m.Label)
		if kind == kindUnknown {
			continue
		}
		per := perUnitTonnes(m)

		if kind == kindStadium {
			// Inverse: how many such schemes would fill the stadium, so
			// doubling the delta halves the count.
			denom := tonnesDelta * per
			if denom <= 0 {
				continue
			}
			if out.Stadium == nil {
				v := stadiumConstant / denom
				out.Stadium = &v
			}
			continue
		}

		if per <= 0 {
			continue
		}
		v := tonnesDelta / per
		switch kind {
		case kindFlights:
			if out.Flights == nil {
				out.Flights = &v
			}
		case kindCars:
			if out.Cars == nil {
				out.Cars = &v
			}
		case kindHomes:
			if out.Homes == nil {
				out.Homes = &v
			}
		case kindTrees:
			if out.Trees == nil {
				out.Trees = &v
			}
		case kindPeople:
			if out.People == nil {
				out.People = &v
			}
		case kindEnergy:
			if out.Energy == nil {
				out.Energy = &v
			}
		}
	}

	if out.Cars != nil {
		laps := *out.Cars / milesAroundEarth
		out.TimesAroundWorld = &laps
	}
	return out
}

func (s *equivalencyService) ComputeForScheme(ctx context.Context, schemeID uuid.UUID) (Equivalencies, error) {
	dbc := dbctx.Context{Ctx: ctx}

	summary, err := s.results.GetSummaryBySchemeID(dbc, schemeID)
	if err != nil {
		return Equivalencies{}, err
	}
	if summary == nil {
		return Equivalencies{}, nil
	}
	metrics, err := s.reference.GetReportMetrics(dbc, true)
	if err != nil {
		return Equivalencies{}, err
	}
	return s.Compute(summary.TotalKgCO2e/1000.0, metrics), nil
}
