package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/clients/calc"
	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type CreateSchemeInput struct {
	Name         string
	Area         float64
	SitePostcode string
	BasePostcode string
	DistanceUnit string
}

type AddMaterialLineInput struct {
	ProductID    uuid.UUID
	PlantID      uuid.UUID
	MixTypeID    uuid.UUID
	DeliveryType string
	Tonnage      float64
	// Literal distance in Unit; when nil the plant-to-site distance is
	// resolved from postcodes.
	Distance *float64
	Unit     string
}

type SetModesInput struct {
	InstallationMode *string
	MaterialsMode    *string
	A5FuelMode       *string
}

// A1View summarizes the raw-material stage for a scheme: the blended factor
// and recycled percentage over its current delivery lines.
type A1View struct {
	BlendedFactorKgPerTonne *float64 `json:"blended_factor_kg_per_tonne,omitempty"`
	RecycledPct             *float64 `json:"recycled_pct,omitempty"`
	DeliveredTonnage        float64  `json:"delivered_tonnage"`
}

// SchemeService owns scheme lifecycle and material-line editing, and is the
// entry point for recalculation.
type SchemeService interface {
	Create(ctx context.Context, in CreateSchemeInput) (*domain.Scheme, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Scheme, error)
	AddMaterialLine(ctx context.Context, schemeID uuid.UUID, in AddMaterialLineInput) (*domain.SchemeProduct, error)
	DeleteMaterialLine(ctx context.Context, schemeID, lineID uuid.UUID) error
	SetModes(ctx context.Context, schemeID uuid.UUID, in SetModesInput) (*domain.Scheme, error)
	SetLock(ctx context.Context, schemeID uuid.UUID, locked bool) error
	A1View(ctx context.Context, schemeID uuid.UUID) (*A1View, error)
	Recalculate(ctx context.Context, schemeID uuid.UUID) (*LifecycleView, error)
}

type schemeService struct {
	db        *gorm.DB
	log       *logger.Logger
	schemes   repos.SchemeRepo
	products  repos.SchemeProductRepo
	results   repos.CarbonResultRepo
	reference repos.ReferenceRepo
	distance  DistanceService
	usage     UsageService
	a1        A1Service
	lifecycle LifecycleService
	calc      calc.Client
}

func NewSchemeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	schemes repos.SchemeRepo,
	products repos.SchemeProductRepo,
	results repos.CarbonResultRepo,
	reference repos.ReferenceRepo,
	distance DistanceService,
	usage UsageService,
	a1 A1Service,
	lifecycle LifecycleService,
	calcClient calc.Client,
) SchemeService {
	return &schemeService{
		db:        db,
		log:       baseLog.With("service", "SchemeService"),
		schemes:   schemes,
		products:  products,
		results:   results,
		reference: reference,
		distance:  distance,
		usage:     usage,
		a1:        a1,
		lifecycle: lifecycle,
		calc:      calcClient,
	}
}

func (s *schemeService) Create(ctx context.Context, in CreateSchemeInput) (*domain.Scheme, error) {
	dbc := dbctx.Context{Ctx: ctx}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("scheme name is required")
	}
	unit := domain.UnitKm
	if in.DistanceUnit != "" {
		parsed, ok := domain.ParseDistanceUnit(in.DistanceUnit)
		if !ok {
			return nil, validationf("unknown distance unit %q", in.DistanceUnit)
		}
		unit = parsed
	}

	scheme := &domain.Scheme{
		ID:               uuid.New(),
		Name:             name,
		Area:             in.Area,
		SitePostcode:     strings.TrimSpace(in.SitePostcode),
		BasePostcode:     strings.TrimSpace(in.BasePostcode),
		DistanceUnit:     unit,
		InstallationMode: domain.ModeAuto,
		MaterialsMode:    domain.ModeAuto,
		A5FuelMode:       domain.ModeAuto,
	}
	return s.schemes.Create(dbc, scheme)
}

func (s *schemeService) Get(ctx context.Context, id uuid.UUID) (*domain.Scheme, error) {
	scheme, err := s.schemes.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if scheme == nil {
		return nil, ErrNotFound
	}
	return scheme, nil
}

func (s *schemeService) AddMaterialLine(ctx context.Context, schemeID uuid.UUID, in AddMaterialLineInput) (*domain.SchemeProduct, error) {
	dbc := dbctx.Context{Ctx: ctx}

	scheme, err := s.Get(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	if scheme.Locked {
		return nil, ErrSchemeLocked
	}

	if in.ProductID == uuid.Nil || in.PlantID == uuid.Nil || in.MixTypeID == uuid.Nil {
		return nil, validationf("product, plant and mix type are required")
	}
	deliveryType, ok := domain.ParseDeliveryType(in.DeliveryType)
	if !ok {
		return nil, validationf("unknown delivery type %q", in.DeliveryType)
	}
	if in.Tonnage <= 0 {
		return nil, validationf("tonnage must be > 0")
	}
	unit := scheme.DistanceUnit
	if in.Unit != "" {
		parsed, ok := domain.ParseDistanceUnit(in.Unit)
		if !ok {
			return nil, validationf("unknown distance unit %q", in.Unit)
		}
		unit = parsed
	}

	var originPostcode string
	if in.Distance == nil {
		plant, err := s.reference.GetPlantByID(dbc, in.PlantID)
		if err != nil {
			return nil, err
		}
		if plant == nil {
			return nil, ErrNotFound
		}
		originPostcode = plant.Postcode
	}

	km, err := s.distance.ResolveKm(ctx, DistanceRequest{
		Literal:             in.Distance,
		Unit:                unit,
		OriginPostcode:      originPostcode,
		DestinationPostcode: scheme.SitePostcode,
	})
	if err != nil {
		return nil, err
	}

	line := &domain.SchemeProduct{
		ID:           uuid.New(),
		SchemeID:     schemeID,
		ProductID:    in.ProductID,
		PlantID:      in.PlantID,
		MixTypeID:    in.MixTypeID,
		DeliveryType: deliveryType,
		Tonnage:      in.Tonnage,
		DistanceKm:   km,
		EnteredUnit:  unit,
	}
	if _, err := s.products.Create(dbc, []*domain.SchemeProduct{line}); err != nil {
		return nil, err
	}
	return line, nil
}

// DeleteMaterialLine removes one line; removing the scheme's last line also
// clears the derived result rows and summary, which describe state that no
// longer exists.
func (s *schemeService) DeleteMaterialLine(ctx context.Context, schemeID, lineID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}

	scheme, err := s.Get(ctx, schemeID)
	if err != nil {
		return err
	}
	if scheme.Locked {
		return ErrSchemeLocked
	}

	line, err := s.products.GetByID(dbc, lineID)
	if err != nil {
		return err
	}
	if line == nil || line.SchemeID != schemeID {
		return ErrNotFound
	}
	if err := s.products.DeleteByIDs(dbc, []uuid.UUID{lineID}); err != nil {
		return err
	}

	remaining, err := s.products.CountBySchemeID(dbc, schemeID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.results.DeleteRowsBySchemeID(dbc, schemeID); err != nil {
			return partialFailure("clear_result_rows", err)
		}
		if err := s.results.DeleteSummaryBySchemeID(dbc, schemeID); err != nil {
			return partialFailure("clear_result_summary", err)
		}
	}
	return nil
}

func (s *schemeService) SetModes(ctx context.Context, schemeID uuid.UUID, in SetModesInput) (*domain.Scheme, error) {
	dbc := dbctx.Context{Ctx: ctx}

	scheme, err := s.Get(ctx, schemeID)
	if err != nil {
		return nil, err
	}
	if scheme.Locked {
		return nil, ErrSchemeLocked
	}

	updates := map[string]interface{}{}
	if in.InstallationMode != nil {
		mode, ok := domain.ParseUsageMode(*in.InstallationMode)
		if !ok {
			return nil, validationf("unknown installation mode %q", *in.InstallationMode)
		}
		scheme.InstallationMode = mode
		updates["installation_mode"] = mode
	}
	if in.MaterialsMode != nil {
		mode, ok := domain.ParseUsageMode(*in.MaterialsMode)
		if !ok {
			return nil, validationf("unknown materials mode %q", *in.MaterialsMode)
		}
		scheme.MaterialsMode = mode
		updates["materials_mode"] = mode
	}

	var a5Switched *domain.UsageMode
	if in.A5FuelMode != nil {
		mode, ok := domain.ParseUsageMode(*in.A5FuelMode)
		if !ok {
			return nil, validationf("unknown A5 fuel mode %q", *in.A5FuelMode)
		}
		if mode != scheme.A5FuelMode {
			a5Switched = &mode
		}
		scheme.A5FuelMode = mode
		updates["a5_fuel_mode"] = mode
	}

	if len(updates) == 0 {
		return scheme, nil
	}
	if err := s.schemes.UpdateFields(dbc, schemeID, updates); err != nil {
		return nil, err
	}

	if a5Switched != nil {
		switch *a5Switched {
		case domain.ModeManual:
			// Drop only the derived rows; manual entries survive the switch.
			if err := s.usage.ClearAuto(ctx, schemeID, domain.CategoryPlant); err != nil {
				return nil, partialFailure("clear_auto_plant_usage", err)
			}
			if err := s.usage.ClearAuto(ctx, schemeID, domain.CategoryTransport); err != nil {
				return nil, partialFailure("clear_auto_transport_usage", err)
			}
		case domain.ModeAuto:
			if err := s.usage.RegenerateAuto(ctx, schemeID, nil); err != nil {
				return nil, err
			}
		}
	}
	return scheme, nil
}

func (s *schemeService) SetLock(ctx context.Context, schemeID uuid.UUID, locked bool) error {
	dbc := dbctx.Context{Ctx: ctx}
	scheme, err := s.Get(ctx, schemeID)
	if err != nil {
		return err
	}
	if scheme.Locked == locked {
		return nil
	}
	return s.schemes.UpdateFields(dbc, schemeID, map[string]interface{}{"locked": locked})
}

func (s *schemeService) A1View(ctx context.Context, schemeID uuid.UUID) (*A1View, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.Get(ctx, schemeID); err != nil {
		return nil, err
	}
	lines, err := s.products.GetBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, err
	}
	factor, err := s.a1.BlendedFactor(dbc, lines)
	if err != nil {
		return nil, err
	}
	pct, err := s.a1.RecycledPct(dbc, lines)
	if err != nil {
		return nil, err
	}
	return &A1View{
		BlendedFactorKgPerTonne: factor,
		RecycledPct:             pct,
		DeliveredTonnage:        DeliveredTonnage(lines),
	}, nil
}

func (s *schemeService) Recalculate(ctx context.Context, schemeID uuid.UUID) (*LifecycleView, error) {
	if _, err := s.Get(ctx, schemeID); err != nil {
		return nil, err
	}
	if err := s.calc.Recalculate(ctx, schemeID); err != nil {
		return nil, err
	}
	return s.lifecycle.ViewForScheme(ctx, schemeID)
}
