package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
	"github.com/kerbstone/pavetrack-backend/internal/platform/dbctx"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

// CarbonResultRepo reads what the external roll-up procedure wrote and clears
// it when a scheme's last material line goes away. The procedure itself owns
// inserts in production; CreateRows exists for scenario tooling and tests.
type CarbonResultRepo interface {
	CreateRows(dbc dbctx.Context, rows []*domain.CarbonResultRow) ([]*domain.CarbonResultRow, error)
	GetRowsBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.CarbonResultRow, error)
	DeleteRowsBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error

	UpsertSummary(dbc dbctx.Context, row *domain.CarbonSummary) error
	GetSummaryBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (*domain.CarbonSummary, error)
	DeleteSummaryBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error
}

type carbonResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCarbonResultRepo(db *gorm.DB, baseLog *logger.Logger) CarbonResultRepo {
	return &carbonResultRepo{db: db, log: baseLog.With("repo", "CarbonResultRepo")}
}

func (r *carbonResultRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *carbonResultRepo) CreateRows(dbc dbctx.Context, rows []*domain.CarbonResultRow) ([]*domain.CarbonResultRow, error) {
	if len(rows) == 0 {
		return []*domain.CarbonResultRow{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *carbonResultRepo) GetRowsBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) ([]*domain.CarbonResultRow, error) {
	var out []*domain.CarbonResultRow
	if schemeID == uuid.Nil {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Order("stage ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *carbonResultRepo) DeleteRowsBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error {
	if schemeID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Delete(&domain.CarbonResultRow{}).Error
}

func (r *carbonResultRepo) UpsertSummary(dbc dbctx.Context, row *domain.CarbonSummary) error {
	if row == nil || row.SchemeID == uuid.Nil {
		return nil
	}
	existing, err := r.GetSummaryBySchemeID(dbc, row.SchemeID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.TotalKgCO2e = row.TotalKgCO2e
		existing.PerTonneKgCO2e = row.PerTonneKgCO2e
		existing.TotalTonnage = row.TotalTonnage
		return r.tx(dbc).WithContext(dbc.Ctx).Save(existing).Error
	}
	return r.tx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *carbonResultRepo) GetSummaryBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) (*domain.CarbonSummary, error) {
	if schemeID == uuid.Nil {
		return nil, nil
	}
	var out []*domain.CarbonSummary
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *carbonResultRepo) DeleteSummaryBySchemeID(dbc dbctx.Context, schemeID uuid.UUID) error {
	if schemeID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("scheme_id = ?", schemeID).
		Delete(&domain.CarbonSummary{}).Error
}
