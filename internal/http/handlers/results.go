package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kerbstone/pavetrack-backend/internal/http/response"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
	"github.com/kerbstone/pavetrack-backend/internal/services"
)

type ResultsHandler struct {
	log           *logger.Logger
	schemes       services.SchemeService
	lifecycle     services.LifecycleService
	equivalencies services.EquivalencyService
}

func NewResultsHandler(
	log *logger.Logger,
	schemes services.SchemeService,
	lifecycle services.LifecycleService,
	equivalencies services.EquivalencyService,
) *ResultsHandler {
	return &ResultsHandler{
		log:           log.With("handler", "ResultsHandler"),
		schemes:       schemes,
		lifecycle:     lifecycle,
		equivalencies: equivalencies,
	}
}

// POST /api/schemes/:id/recalculate
func (h *ResultsHandler) Recalculate(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	view, err := h.schemes.Recalculate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/schemes/:id/lifecycle
func (h *ResultsHandler) Lifecycle(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	view, err := h.lifecycle.ViewForScheme(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/schemes/:id/equivalencies
func (h *ResultsHandler) Equivalencies(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	eq, err := h.equivalencies.ComputeForScheme(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, eq)
}
