package app

import (
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/data/repos"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type Repos struct {
	Scheme           repos.SchemeRepo
	SchemeProduct    repos.SchemeProductRepo
	InstallationItem repos.InstallationItemRepo
	UsageEntry       repos.UsageEntryRepo
	PlantMixFactor   repos.PlantMixFactorRepo
	CarbonResult     repos.CarbonResultRepo
	Scenario         repos.ScenarioSnapshotRepo
	Reference        repos.ReferenceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Scheme:           repos.NewSchemeRepo(db, log),
		SchemeProduct:    repos.NewSchemeProductRepo(db, log),
		InstallationItem: repos.NewInstallationItemRepo(db, log),
		UsageEntry:       repos.NewUsageEntryRepo(db, log),
		PlantMixFactor:   repos.NewPlantMixFactorRepo(db, log),
		CarbonResult:     repos.NewCarbonResultRepo(db, log),
		Scenario:         repos.NewScenarioSnapshotRepo(db, log),
		Reference:        repos.NewReferenceRepo(db, log),
	}
}
