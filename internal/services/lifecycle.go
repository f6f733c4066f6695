package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type StageDetail struct {
	Label          string  `json:"label"`
	TotalKgCO2e    float64 `json:"total_kgco2e"`
	PerTonneKgCO2e float64 `json:"per_tonne_kgco2e"`
}

type StageGroup struct {
	Stage          string        `json:"stage"`
	Description    string        `json:"description"`
	TotalKgCO2e    float64       `json:"total_kgco2e"`
	PerTonneKgCO2e float64       `json:"per_tonne_kgco2e"`
	Details        []StageDetail `json:"details"`
}

// LifecycleView is the display/report shape: ordered stage groups plus the
// on-demand aggregate bands.
type LifecycleView struct {
	Stages []StageGroup       `json:"stages"`
	Bands  map[string]float64 `json:"bands"`
}

// LifecycleService groups flat carbon-result rows into the stage hierarchy
// used for display and reporting.
type LifecycleService interface {
	ViewForScheme(ctx context.Context, schemeID uuid.UUID) (*LifecycleView, error)
}

type lifecycleService struct {
	log       *logger.Logger
	results   repos.CarbonResultRepo
	products  repos.SchemeProductRepo
	reference repos.ReferenceRepo
}

func NewLifecycleService(
	baseLog *logger.Logger,
	results repos.CarbonResultRepo,
	products repos.SchemeProductRepo,
	reference repos.ReferenceRepo,
) LifecycleService {
	return &lifecycleService{
		log:       baseLog.With("service", "LifecycleService"),
		results:   results,
		products:  products,
		reference: reference,
	}
}

var stageDescriptions = map[string]string{
	"A1": "Raw materials",
	"A2": "Transport to plant",
	"A3": "Manufacture",
	"A4": "Transport to site",
	"A5": "Installation",
	"B1": "Use",
	"B2": "Maintenance",
	"B3": "Repair",
	"B4": "Replacement",
	"B5": "Refurbishment",
	"C1": "Deconstruction",
	"C2": "Transport to end of life",
	"C3": "Waste processing",
	"C4": "Disposal",
}

// a4TipDescription replaces the A4 text when any material line tips to
// landfill, so the report names both destinations.
const a4TipDescription = "Transport to site/Landfill"

// StageDescription returns the display text for a stage code.
func StageDescription(stage string, tipPresent bool) string {
	if stage == "A4" && tipPresent {
		return a4TipDescription
	}
	if d, ok := stageDescriptions[stage]; ok {
		return d
	}
	return stage
}

// GroupRowsByStage folds flat result rows into ordered stage groups. A row
// with no product/mix/detail key is its stage's summary; every other row
// becomes a detail labeled by the resolver. Stages sort lexicographically,
// which matches the lifecycle code order (A2 < A3 < A4 < A5 < B1 ... C4).
func GroupRowsByStage(rows []*domain.CarbonResultRow, label func(*domain.CarbonResultRow) string, tipPresent bool) []StageGroup {
	byStage := map[string]*StageGroup{}
	var order []string

	for _, row := range rows {
		stage := strings.ToUpper(strings.TrimSpace(row.Stage))
		if stage == "" {
			continue
		}
		g, ok := byStage[stage]
		if !ok {
			g = &StageGroup{
				Stage:       stage,
				Description: StageDescription(stage, tipPresent),
				Details:     []StageDetail{},
			}
			byStage[stage] = g
			order = append(order, stage)
		}
		if row.IsStageSummary() {
			g.TotalKgCO2e = row.TotalKgCO2e
			g.PerTonneKgCO2e = row.PerTonneKgCO2e
			continue
		}
		g.Details = append(g.Details, StageDetail{
			Label:          label(row),
			TotalKgCO2e:    row.TotalKgCO2e,
			PerTonneKgCO2e: row.PerTonneKgCO2e,
		})
	}

	sort.Strings(order)
	out := make([]StageGroup, 0, len(order))
	for _, stage := range order {
		out = append(out, *byStage[stage])
	}
	return out
}

// StageBands derives the A1–A3/A1–A4/A1–A5 aggregates by summing stage
// summaries; they are never stored.
func StageBands(groups []StageGroup) map[string]float64 {
	bands := map[string]float64{
		"A1-A3": 0,
		"A1-A4": 0,
		"A1-A5": 0,
	}
	for _, g := range groups {
		if len(g.Stage) < 2 || g.Stage[0] != 'A' {
			continue
		}
		for band, hi := range map[string]string{"A1-A3": "A3", "A1-A4": "A4", "A1-A5": "A5"} {
			if g.Stage <= hi {
				bands[band] += g.TotalKgCO2e
			}
		}
	}
	return bands
}

func (s *lifecycleService) ViewForScheme(ctx context.Context, schemeID uuid.UUID) (*LifecycleView, error) {
	dbc := dbctx.Context{Ctx: ctx}

	rows, err := s.results.GetRowsBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, err
	}
	lines, err := s.products.GetBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, err
	}

	tipPresent := false
	for _, line := range lines {
		if line.DeliveryType == domain.DeliveryTypeTip {
			tipPresent = true
			break
		}
	}

	labeler, err := s.buildLabeler(dbc, rows)
	if err != nil {
		return nil, err
	}

	groups := GroupRowsByStage(rows, labeler, tipPresent)
	return &LifecycleView{
		Stages: groups,
		Bands:  StageBands(groups),
	}, nil
}

// buildLabeler resolves product/mix ids to names once, then labels each
// detail row. A literal detail_label wins; otherwise the product and mix
// names joined, falling back to raw ids for anything unknown.
func (s *lifecycleService) buildLabeler(dbc dbctx.Context, rows []*domain.CarbonResultRow) (func(*domain.CarbonResultRow) string, error) {
	var productIDs, mixIDs []uuid.UUID
	seenP, seenM := map[uuid.UUID]bool{}, map[uuid.UUID]bool{}
	for _, row := range rows {
		if row.ProductID != nil && !seenP[*row.ProductID] {
			seenP[*row.ProductID] = true
			productIDs = append(productIDs, *row.ProductID)
		}
		if row.MixTypeID != nil && !seenM[*row.MixTypeID] {
			seenM[*row.MixTypeID] = true
			mixIDs = append(mixIDs, *row.MixTypeID)
		}
	}

	productNames := map[uuid.UUID]string{}
	if len(productIDs) > 0 {
		products, err := s.reference.GetProductsByIDs(dbc, productIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			productNames[p.ID] = p.Name
		}
	}
	mixNames := map[uuid.UUID]string{}
	if len(mixIDs) > 0 {
		mixes, err := s.reference.GetMixTypesByIDs(dbc, mixIDs)
		if err != nil {
			return nil, err
		}
		for _, m := range mixes {
			mixNames[m.ID] = m.Name
		}
	}

	return func(row *domain.CarbonResultRow) string {
		if row.DetailLabel != "" {
			return row.DetailLabel
		}
		var parts []string
		if row.ProductID != nil {
			if name := productNames[*row.ProductID]; name != "" {
				parts = append(parts, name)
			} else {
				parts = append(parts, row.ProductID.String())
			}
		}
		if row.MixTypeID != nil {
			if name := mixNames[*row.MixTypeID]; name != "" {
				parts = append(parts, name)
			} else {
				parts = append(parts, row.MixTypeID.String())
			}
		}
		return strings.Join(parts, " / ")
	}, nil
}
