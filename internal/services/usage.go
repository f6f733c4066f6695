package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// ManualUsageInput is a user-entered usage row for one installation item.
type ManualUsageInput struct {
	InstallationItemID uuid.UUID
	Litres             *float64
	DistanceKm         *float64
	OneWay             bool
}

// UsageService derives installation-phase fuel and transport usage from
// delivered tonnage when a scheme runs in auto A5 mode, and accepts validated
// manual rows otherwise. Auto regeneration replaces prior auto rows with a
// delete-then-insert sequence per category; the two steps are not atomic and
// a failure between them surfaces as a partial failure.
type UsageService interface {
	// RegenerateAuto rebuilds every auto usage row for the scheme.
	// transportKmOverride short-circuits base/site distance resolution.
	RegenerateAuto(ctx context.Context, schemeID uuid.UUID, transportKmOverride *float64) error

	// ClearAuto removes system-derived rows for one category, preserving
	// user-entered ones. Called when a scheme switches to manual mode.
	ClearAuto(ctx context.Context, schemeID uuid.UUID, category domain.InstallationCategory) error

	AddManualEntry(ctx context.Context, schemeID uuid.UUID, in ManualUsageInput) (*domain.UsageEntry, error)
}

type usageService struct {
	db       *gorm.DB
	log      *logger.Logger
	schemes  repos.SchemeRepo
	products repos.SchemeProductRepo
	items    repos.InstallationItemRepo
	usage    repos.UsageEntryRepo
	distance DistanceService
}

func NewUsageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	schemes repos.SchemeRepo,
	products repos.SchemeProductRepo,
	items repos.InstallationItemRepo,
	usage repos.UsageEntryRepo,
	distance DistanceService,
) UsageService {
	return &usageService{
		db:       db,
		log:      baseLog.With("service", "UsageService"),
		schemes:  schemes,
		products: products,
		items:    items,
		usage:    usage,
		distance: distance,
	}
}

// DeliveredTonnage sums material tonnage over delivery-classified lines only;
// returns and tips do not add delivered material.
func DeliveredTonnage(lines []*domain.SchemeProduct) float64 {
	var total float64
	for _, line := range lines {
		if line.DeliveryType == domain.DeliveryTypeDelivery {
			total += line.Tonnage
		}
	}
	return total
}

func (s *usageService) RegenerateAuto(ctx context.Context, schemeID uuid.UUID, transportKmOverride *float64) error {
	dbc := dbctx.Context{Ctx: ctx}
	scheme, err := s.schemes.GetByID(dbc, schemeID)
	if err != nil {
		return err
	}
	if scheme == nil {
		return ErrNotFound
	}
	if scheme.A5FuelMode != domain.ModeAuto {
		return validationf("scheme is in manual A5 fuel mode")
	}

	lines, err := s.products.GetBySchemeID(dbc, schemeID)
	if err != nil {
		return err
	}
	delivered := DeliveredTonnage(lines)

	if err := s.regeneratePlantFuel(dbc, scheme, delivered); err != nil {
		return err
	}
	return s.regenerateTransport(dbc, scheme, transportKmOverride)
}

func (s *usageService) regeneratePlantFuel(dbc dbctx.Context, scheme *domain.Scheme, delivered float64) error {
	items, err := s.items.GetBySchemeIDAndCategory(dbc, scheme.ID, domain.CategoryPlant)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
	}
	if err := s.usage.DeleteAutoByItemIDs(dbc, itemIDs); err != nil {
		return partialFailure("delete_auto_plant_usage", err)
	}

	rows := make([]*domain.UsageEntry, 0, len(items))
	for _, it := range items {
		litres := it.LitresPerTonne * delivered * it.Quantity
		rows = append(rows, &domain.UsageEntry{
			ID:                 uuid.New(),
			SchemeID:           scheme.ID,
			InstallationItemID: it.ID,
			Litres:             &litres,
			AutoGenerated:      true,
		})
	}
	if _, err := s.usage.Create(dbc, rows); err != nil {
		return partialFailure("insert_auto_plant_usage", err)
	}
	return nil
}

func (s *usageService) regenerateTransport(dbc dbctx.Context, scheme *domain.Scheme, kmOverride *float64) error {
	items, err := s.items.GetBySchemeIDAndCategory(dbc, scheme.ID, domain.CategoryTransport)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	// One distance for every transport item: the override when given,
	// otherwise base depot to site.
	km, err := s.distance.ResolveKm(dbc.Ctx, DistanceRequest{
		Literal:             kmOverride,
		Unit:                domain.UnitKm,
		OriginPostcode:      scheme.BasePostcode,
		DestinationPostcode: scheme.SitePostcode,
	})
	if err != nil {
		return err
	}

	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
	}
	if err := s.usage.DeleteAutoByItemIDs(dbc, itemIDs); err != nil {
		return partialFailure("delete_auto_transport_usage", err)
	}

	rows := make([]*domain.UsageEntry, 0, len(items))
	for _, it := range items {
		d := km
		rows = append(rows, &domain.UsageEntry{
			ID:                 uuid.New(),
			SchemeID:           scheme.ID,
			InstallationItemID: it.ID,
			DistanceKm:         &d,
			AutoGenerated:      true,
		})
	}
	if _, err := s.usage.Create(dbc, rows); err != nil {
		return partialFailure("insert_auto_transport_usage", err)
	}
	return nil
}

func (s *usageService) ClearAuto(ctx context.Context, schemeID uuid.UUID, category domain.InstallationCategory) error {
	dbc := dbctx.Context{Ctx: ctx}
	items, err := s.items.GetBySchemeIDAndCategory(dbc, schemeID, category)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
	}
	return s.usage.DeleteAutoByItemIDs(dbc, itemIDs)
}

func (s *usageService) AddManualEntry(ctx context.Context, schemeID uuid.UUID, in ManualUsageInput) (*domain.UsageEntry, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if in.InstallationItemID == uuid.Nil {
		return nil, validationf("missing installation_item_id")
	}
	scheme, err := s.schemes.GetByID(dbc, schemeID)
	if err != nil {
		return nil, err
	}
	if scheme == nil {
		return nil, ErrNotFound
	}
	if scheme.Locked {
		return nil, ErrSchemeLocked
	}
	// Auto and manual A5 usage are mutually exclusive per scheme.
	if scheme.A5FuelMode != domain.ModeManual {
		return nil, validationf("scheme is in auto A5 fuel mode")
	}
	item, err := s.items.GetByID(dbc, in.InstallationItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.SchemeID != schemeID {
		return nil, ErrNotFound
	}

	row := &domain.UsageEntry{
		ID:                 uuid.New(),
		SchemeID:           schemeID,
		InstallationItemID: item.ID,
	}
	switch item.Category {
	case domain.CategoryPlant:
		if in.Litres == nil || *in.Litres <= 0 {
			return nil, validationf("plant usage requires litres > 0")
		}
		if in.DistanceKm != nil {
			return nil, validationf("plant usage cannot carry a distance")
		}
		row.Litres = in.Litres
	case domain.CategoryTransport:
		if in.DistanceKm == nil || *in.DistanceKm <= 0 {
			return nil, validationf("transport usage requires distance > 0")
		}
		if in.Litres != nil {
			return nil, validationf("transport usage cannot carry litres")
		}
		row.DistanceKm = in.DistanceKm
		row.OneWay = in.OneWay
	default:
		return nil, validationf("usage entries apply to plant or transport items only")
	}

	if _, err := s.usage.Create(dbc, []*domain.UsageEntry{row}); err != nil {
		return nil, err
	}
	return row, nil
}
