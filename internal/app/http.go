package app

import (
	"github.com/gin-gonic/gin"

	apihttp "github.com/kerbstone/pavetrack-backend/internal/http"
	httpH "github.com/kerbstone/pavetrack-backend/internal/http/handlers"
	httpMW "github.com/kerbstone/pavetrack-backend/internal/http/middleware"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Scheme   *httpH.SchemeHandler
	Scenario *httpH.ScenarioHandler
	Results  *httpH.ResultsHandler
	Factor   *httpH.FactorHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Scheme:   httpH.NewSchemeHandler(log, serviceset.Scheme, serviceset.Usage),
		Scenario: httpH.NewScenarioHandler(log, serviceset.Scenario),
		Results:  httpH.NewResultsHandler(log, serviceset.Scheme, serviceset.Lifecycle, serviceset.Equivalency),
		Factor:   httpH.NewFactorHandler(log, serviceset.Scheme, serviceset.Factor),
	}
}

func wireMiddleware(log *logger.Logger) Middleware {
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log),
	}
}

func wireRouter(log *logger.Logger, handlerset Handlers, mw Middleware) *gin.Engine {
	return apihttp.NewRouter(apihttp.RouterConfig{
		Log:             log,
		HealthHandler:   handlerset.Health,
		SchemeHandler:   handlerset.Scheme,
		ScenarioHandler: handlerset.Scenario,
		ResultsHandler:  handlerset.Results,
		FactorHandler:   handlerset.Factor,
		AuthMiddleware:  mw.Auth,
	})
}
