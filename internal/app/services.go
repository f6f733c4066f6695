package app

import (
	"gorm.io/gorm"

	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
	"github.com/kerbstone/pavetrack-backend/internal/services"
)

type Services struct {
	Distance    services.DistanceService
	Factor      services.FactorService
	A1          services.A1Service
	Usage       services.UsageService
	Scheme      services.SchemeService
	Scenario    services.ScenarioService
	Lifecycle   services.LifecycleService
	Equivalency services.EquivalencyService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	distance := services.NewDistanceService(log, clients.Geocode, clients.Routing)
	factor := services.NewFactorService(db, log, reposet.PlantMixFactor)
	a1 := services.NewA1Service(log, factor)
	usage := services.NewUsageService(db, log, reposet.Scheme, reposet.SchemeProduct, reposet.InstallationItem, reposet.UsageEntry, distance)
	lifecycle := services.NewLifecycleService(log, reposet.CarbonResult, reposet.SchemeProduct, reposet.Reference)
	equivalency := services.NewEquivalencyService(log, reposet.CarbonResult, reposet.Reference)
	scheme := services.NewSchemeService(db, log, reposet.Scheme, reposet.SchemeProduct, reposet.CarbonResult, reposet.Reference, distance, usage, a1, lifecycle, clients.Calc)
	scenario := services.NewScenarioService(db, log, reposet.Scheme, reposet.SchemeProduct, reposet.InstallationItem, reposet.UsageEntry, reposet.CarbonResult, reposet.Scenario, reposet.Reference, clients.Calc)

	return Services{
		Distance:    distance,
		Factor:      factor,
		A1:          a1,
		Usage:       usage,
		Scheme:      scheme,
		Scenario:    scenario,
		Lifecycle:   lifecycle,
		Equivalency: equivalency,
	}
}
