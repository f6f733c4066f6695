package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/domain"
)

func models() []interface{} {
	return []interface{}{
		&domain.Plant{},
		&domain.MixType{},
		&domain.Product{},
		&domain.FuelType{},
		&domain.InstallationSetup{},
		&domain.PlantMixFactor{},
		&domain.ReportMetric{},
		&domain.Scheme{},
		&domain.SchemeProduct{},
		&domain.InstallationItem{},
		&domain.UsageEntry{},
		&domain.CarbonResultRow{},
		&domain.CarbonSummary{},
		&domain.ScenarioSnapshot{},
	}
}

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrate(s.db); err != nil {
		return err
	}
	s.log.Info("database migrated")
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	for _, m := range models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}
