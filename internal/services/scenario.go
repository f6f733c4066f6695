package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/clients/calc"
	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// MaxSnapshotsPerScheme caps how many scenario branches one scheme may hold.
const MaxSnapshotsPerScheme = 5

// autoLabelMaxLen caps generated label length in runes.
const autoLabelMaxLen = 72

// ScenarioService captures the full editable state of a scheme into versioned
// snapshot documents and can later overwrite the live state with a captured
// one. Snapshots also embed the last computed result rows, so comparing saved
// scenarios never re-invokes the roll-up procedure.
type ScenarioService interface {
	Create(ctx context.Context, schemeID uuid.UUID) (*domain.ScenarioSnapshot, error)
	Apply(ctx context.Context, scenarioID uuid.UUID) error
	Update(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioSnapshot, error)
	RenameLabel(ctx context.Context, scenarioID uuid.UUID, label string) error
	Delete(ctx context.Context, scenarioID uuid.UUID) error
	ListForScheme(ctx context.Context, schemeID uuid.UUID) ([]*domain.ScenarioSnapshot, error)
}

type scenarioService struct {
	db        *gorm.DB
	log       *logger.Logger
	schemes   repos.SchemeRepo
	products  repos.SchemeProductRepo
	items     repos.InstallationItemRepo
	usage     repos.UsageEntryRepo
	results   repos.CarbonResultRepo
	scenarios repos.ScenarioSnapshotRepo
	reference repos.ReferenceRepo
	calc      calc.Client
}

func NewScenarioService(
	db *gorm.DB,
	baseLog *logger.Logger,
	schemes repos.SchemeRepo,
	products repos.SchemeProductRepo,
	items repos.InstallationItemRepo,
	usage repos.UsageEntryRepo,
	results repos.CarbonResultRepo,
	scenarios repos.ScenarioSnapshotRepo,
	reference repos.ReferenceRepo,
	calcClient calc.Client,
) ScenarioService {
	return &scenarioService{
		db:        db,
		log:       baseLog.With("service", "ScenarioService"),
		schemes:   schemes,
		products:  products,
		items:     items,
		usage:     usage,
		results:   results,
		scenarios: scenarios,
		reference: reference,
		calc:      calcClient,
	}
}

// captureDocument copies the scheme's three editable row sets verbatim plus
// its current result rows and summary into one embedded document.
func (s *scenarioService) captureDocument(dbc dbctx.Context, schemeID uuid.UUID) (*domain.SnapshotDocument, []*domain.SchemeProduct, error) {
	products, err := s.products.GetBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.items.GetBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, nil, err
	}
	usage, err := s.usage.GetBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, nil, err
	}
	resultRows, err := s.results.GetRowsBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.results.GetSummaryBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, nil, err
	}

	doc := &domain.SnapshotDocument{
		Version:                 domain.SnapshotDocumentVersion,
		SchemeProducts:          derefRows(products),
		SchemeInstallationItems: derefRows(items),
		SchemeA5UsageEntries:    derefRows(usage),
		SchemeCarbonResults:     derefRows(resultRows),
		SchemeCarbonSummary:     summary,
	}
	return doc, products, nil
}

func derefRows[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func (s *scenarioService) Create(ctx context.Context, schemeID uuid.UUID) (*domain.ScenarioSnapshot, error) {
	dbc := dbctx.Context{Ctx: ctx}

	scheme, err := s.schemes.GetByID(dbc, schemeID)
	if err != nil {
		return nil, err
	}
	if scheme == nil {
		return nil, ErrNotFound
	}

	count, err := s.scenarios.CountBySchemeID(dbc, schemeID)
	if err != nil {
		return nil, err
	}
	if count >= MaxSnapshotsPerScheme {
		return nil, fmt.Errorf("%w: scheme already holds %d snapshots", ErrScenarioLimit, count)
	}

	doc, products, err := s.captureDocument(dbc, schemeID)
	if err != nil {
		return nil, err
	}
	raw, err := domain.EncodeDocument(doc)
	if err != nil {
		return nil, err
	}

	label, err := s.autoLabel(dbc, products, int(count)+1)
	if err != nil {
		return nil, err
	}

	snap := &domain.ScenarioSnapshot{
		ID:       uuid.New(),
		SchemeID: schemeID,
		Label:    label,
		Revision: 1,
		Document: raw,
	}
	if _, err := s.scenarios.Create(dbc, snap); err != nil {
		return nil, err
	}

	if err := s.schemes.SetActiveScenario(dbc, schemeID, &snap.ID); err != nil {
		return nil, partialFailure("mark_scenario_active", err)
	}
	return snap, nil
}

// autoLabel names a snapshot after the distinct mix types in use, oldest line
// first, or falls back to a numbered label when no mix names resolve.
func (s *scenarioService) autoLabel(dbc dbctx.Context, products []*domain.SchemeProduct, ordinal int) (string, error) {
	var mixIDs []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, p := range products {
		if !seen[p.MixTypeID] {
			seen[p.MixTypeID] = true
			mixIDs = append(mixIDs, p.MixTypeID)
		}
	}
	names := make([]string, 0, len(mixIDs))
	if len(mixIDs) > 0 {
		mixes, err := s.reference.GetMixTypesByIDs(dbc, mixIDs)
		if err != nil {
			return "", err
		}
		byID := map[uuid.UUID]string{}
		for _, m := range mixes {
			byID[m.ID] = m.Name
		}
		for _, id := range mixIDs {
			if name := strings.TrimSpace(byID[id]); name != "" {
				names = append(names, name)
			}
		}
	}
	return BuildScenarioLabel(names, ordinal), nil
}

// BuildScenarioLabel joins mix names into a display label truncated to the
// auto-label length cap, or returns a numbered fallback when no names are given.
func BuildScenarioLabel(mixNames []string, ordinal int) string {
	if len(mixNames) == 0 {
		return fmt.Sprintf("Scenario %d", ordinal)
	}
	label := strings.Join(mixNames, ", ")
	runes := []rune(label)
	if len(runes) > autoLabelMaxLen {
		label = string(runes[:autoLabelMaxLen-1]) + "…"
	}
	return label
}

// Apply wholesale-replaces the scheme's live editable state with the
// snapshot's copies, then recalculates. Usage entries go first and scheme
// products last so rows are never deleted out from under still-referenced
// ones. The sequence is not wrapped in a transaction; a failure partway
// leaves earlier deletions in place.
func (s *scenarioService) Apply(ctx context.Context, scenarioID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}

	snap, err := s.scenarios.GetByID(dbc, scenarioID)
	if err != nil {
		return err
	}
	if snap == nil {
		return ErrNotFound
	}
	doc, err := snap.DecodeDocument()
	if err != nil {
		return err
	}
	schemeID := snap.SchemeID

	if err := s.usage.DeleteBySchemeID(dbc, schemeID); err != nil {
		return partialFailure("delete_usage_entries", err)
	}
	if err := s.items.DeleteBySchemeID(dbc, schemeID); err != nil {
		return partialFailure("delete_installation_items", err)
	}
	if err := s.products.DeleteBySchemeID(dbc, schemeID); err != nil {
		return partialFailure("delete_scheme_products", err)
	}

	products := make([]*domain.SchemeProduct, 0, len(doc.SchemeProducts))
	for i := range doc.SchemeProducts {
		row := doc.SchemeProducts[i]
		row.SchemeID = schemeID
		products = append(products, &row)
	}
	if _, err := s.products.Create(dbc, products); err != nil {
		return partialFailure("insert_scheme_products", err)
	}

	items := make([]*domain.InstallationItem, 0, len(doc.SchemeInstallationItems))
	for i := range doc.SchemeInstallationItems {
		row := doc.SchemeInstallationItems[i]
		row.SchemeID = schemeID
		items = append(items, &row)
	}
	if _, err := s.items.Create(dbc, items); err != nil {
		return partialFailure("insert_installation_items", err)
	}

	usage := make([]*domain.UsageEntry, 0, len(doc.SchemeA5UsageEntries))
	for i := range doc.SchemeA5UsageEntries {
		row := doc.SchemeA5UsageEntries[i]
		row.SchemeID = schemeID
		usage = append(usage, &row)
	}
	if _, err := s.usage.Create(dbc, usage); err != nil {
		return partialFailure("insert_usage_entries", err)
	}

	if err := s.calc.Recalculate(ctx, schemeID); err != nil {
		return partialFailure("recalculate", err)
	}

	if err := s.schemes.SetActiveScenario(dbc, schemeID, &snap.ID); err != nil {
		return partialFailure("mark_scenario_active", err)
	}
	return nil
}

// Update re-captures the scheme's current live state into an existing
// snapshot, leaving its id and label alone.
func (s *scenarioService) Update(ctx context.Context, scenarioID uuid.UUID) (*domain.ScenarioSnapshot, error) {
	dbc := dbctx.Context{Ctx: ctx}

	snap, err := s.scenarios.GetByID(dbc, scenarioID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNotFound
	}

	doc, _, err := s.captureDocument(dbc, snap.SchemeID)
	if err != nil {
		return nil, err
	}
	raw, err := domain.EncodeDocument(doc)
	if err != nil {
		return nil, err
	}

	snap.Document = raw
	snap.Revision++
	if err := s.scenarios.Update(dbc, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *scenarioService) RenameLabel(ctx context.Context, scenarioID uuid.UUID, label string) error {
	dbc := dbctx.Context{Ctx: ctx}

	label = strings.TrimSpace(label)
	if label == "" {
		return validationf("label must not be empty")
	}

	snap, err := s.scenarios.GetByID(dbc, scenarioID)
	if err != nil {
		return err
	}
	if snap == nil {
		return ErrNotFound
	}

	snap.Label = label
	snap.LabelLocked = true
	return s.scenarios.Update(dbc, snap)
}

// Delete removes a snapshot. Deleting the active scenario clears the scheme's
// active reference but does not revert live state.
func (s *scenarioService) Delete(ctx context.Context, scenarioID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}

	snap, err := s.scenarios.GetByID(dbc, scenarioID)
	if err != nil {
		return err
	}
	if snap == nil {
		return ErrNotFound
	}

	scheme, err := s.schemes.GetByID(dbc, snap.SchemeID)
	if err != nil {
		return err
	}
	if scheme != nil && scheme.ActiveScenarioID != nil && *scheme.ActiveScenarioID == snap.ID {
		if err := s.schemes.SetActiveScenario(dbc, scheme.ID, nil); err != nil {
			return partialFailure("clear_active_scenario", err)
		}
	}
	return s.scenarios.DeleteByID(dbc, snap.ID)
}

func (s *scenarioService) ListForScheme(ctx context.Context, schemeID uuid.UUID) ([]*domain.ScenarioSnapshot, error) {
	return s.scenarios.GetBySchemeID(dbctx.Context{Ctx: ctx}, schemeID)
}
