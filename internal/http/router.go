package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kerbstone/pavetrack-backend/internal/http/handlers"
	"github.com/kerbstone/pavetrack-backend/internal/http/middleware"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *handlers.HealthHandler
	SchemeHandler   *handlers.SchemeHandler
	ScenarioHandler *handlers.ScenarioHandler
	ResultsHandler  *handlers.ResultsHandler
	FactorHandler   *handlers.FactorHandler

	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("pavetrack-backend"))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(cfg.Log))
	r.Use(cors.Default())

	r.GET("/healthz", cfg.HealthHandler.Health)

	api := r.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	schemes := api.Group("/schemes")
	{
		schemes.POST("", cfg.SchemeHandler.Create)
		schemes.GET("/:id", cfg.SchemeHandler.Get)
		schemes.PATCH("/:id/modes", cfg.SchemeHandler.SetModes)
		schemes.PATCH("/:id/lock", cfg.SchemeHandler.SetLock)

		schemes.POST("/:id/products", cfg.SchemeHandler.AddProduct)
		schemes.DELETE("/:id/products/:productId", cfg.SchemeHandler.DeleteProduct)

		schemes.POST("/:id/usage", cfg.SchemeHandler.AddUsage)
		schemes.POST("/:id/usage/regenerate", cfg.SchemeHandler.RegenerateUsage)

		schemes.GET("/:id/a1", cfg.FactorHandler.SchemeA1)

		schemes.POST("/:id/recalculate", cfg.ResultsHandler.Recalculate)
		schemes.GET("/:id/lifecycle", cfg.ResultsHandler.Lifecycle)
		schemes.GET("/:id/equivalencies", cfg.ResultsHandler.Equivalencies)

		schemes.GET("/:id/scenarios", cfg.ScenarioHandler.List)
		schemes.POST("/:id/scenarios", cfg.ScenarioHandler.Create)
		schemes.POST("/:id/scenarios/:scenarioId/apply", cfg.ScenarioHandler.Apply)
		schemes.POST("/:id/scenarios/:scenarioId/recapture", cfg.ScenarioHandler.Update)
		schemes.PATCH("/:id/scenarios/:scenarioId/label", cfg.ScenarioHandler.Rename)
		schemes.DELETE("/:id/scenarios/:scenarioId", cfg.ScenarioHandler.Delete)
	}

	api.PUT("/plants/:plantId/default-factor", cfg.FactorHandler.SetPlantDefault)

	return r
}
