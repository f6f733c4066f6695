package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// FactorService resolves emission factors and recycled-content percentages for
// a (plant, mix, product) triple. The fallback chain is fixed: exact triple,
// then the mix-level row with no product, then the plant's flagged default.
// A nil result means "no factor known" and callers must exclude the line from
// blended averages rather than treat it as zero.
type FactorService interface {
	ResolveFactor(dbc dbctx.Context, plantID, mixTypeID uuid.UUID, productID *uuid.UUID) (*float64, error)
	ResolveRecycledPct(dbc dbctx.Context, plantID, mixTypeID uuid.UUID, productID *uuid.UUID) (*float64, error)

	// SetPlantDefault flips the plant's single default-factor flag to the
	// given row. The unset/set pair is two statements, not one transaction;
	// a failure between them leaves the plant with no default.
	SetPlantDefault(ctx context.Context, plantID, factorID uuid.UUID) error
}

type factorService struct {
	db      *gorm.DB
	log     *logger.Logger
	factors repos.PlantMixFactorRepo
	now     func() time.Time
}

func NewFactorService(db *gorm.DB, baseLog *logger.Logger, factors repos.PlantMixFactorRepo) FactorService {
	return &factorService{
		db:      db,
		log:     baseLog.With("service", "FactorService"),
		factors: factors,
		now:     time.Now,
	}
}

func (s *factorService) ResolveFactor(dbc dbctx.Context, plantID, mixTypeID uuid.UUID, productID *uuid.UUID) (*float64, error) {
	return s.resolve(dbc, plantID, mixTypeID, productID, func(f *float64, _ *float64) *float64 { return f })
}

func (s *factorService) ResolveRecycledPct(dbc dbctx.Context, plantID, mixTypeID uuid.UUID, productID *uuid.UUID) (*float64, error) {
	return s.resolve(dbc, plantID, mixTypeID, productID, func(_ *float64, p *float64) *float64 { return p })
}

// resolve walks the chain and returns the first level carrying the wanted
// value on a currently valid row. A level can hold sibling rows that each
// populate only one of the nullable columns, so every row at a level is
// checked before the level is abandoned; a level where no valid row carries
// the value falls through to the next level.
func (s *factorService) resolve(
	dbc dbctx.Context,
	plantID, mixTypeID uuid.UUID,
	productID *uuid.UUID,
	pick func(factor, recycled *float64) *float64,
) (*float64, error) {
	now := s.now()

	if productID != nil && *productID != uuid.Nil {
		rows, err := s.factors.ListExact(dbc, plantID, mixTypeID, *productID)
		if err != nil {
			return nil, err
		}
		if v := pickFromRows(rows, now, pick); v != nil {
			return v, nil
		}
	}

	rows, err := s.factors.ListMixLevel(dbc, plantID, mixTypeID)
	if err != nil {
		return nil, err
	}
	if v := pickFromRows(rows, now, pick); v != nil {
		return v, nil
	}

	rows, err = s.factors.ListPlantDefaults(dbc, plantID)
	if err != nil {
		return nil, err
	}
	if v := pickFromRows(rows, now, pick); v != nil {
		return v, nil
	}

	return nil, nil
}

func pickFromRows(rows []*domain.PlantMixFactor, now time.Time, pick func(factor, recycled *float64) *float64) *float64 {
	for _, row := range rows {
		if row == nil || !row.ValidAt(now) {
			continue
		}
		if v := pick(row.FactorKgPerTonne, row.RecycledPct); v != nil {
			return v
		}
	}
	return nil
}

func (s *factorService) SetPlantDefault(ctx context.Context, plantID, factorID uuid.UUID) error {
	if plantID == uuid.Nil {
		return validationf("missing plant_id")
	}
	if factorID == uuid.Nil {
		return validationf("missing factor_id")
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.factors.UnsetDefaultsForPlant(dbc, plantID); err != nil {
		return partialFailure("unset_existing_defaults", err)
	}
	if err := s.factors.SetDefault(dbc, factorID); err != nil {
		return partialFailure("set_new_default", err)
	}
	return nil
}
