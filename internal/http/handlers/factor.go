package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/http/response"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
	"github.com/kerbstone/pavetrack-backend/internal/services"
)

type FactorHandler struct {
	log     *logger.Logger
	schemes services.SchemeService
	factors services.FactorService
}

func NewFactorHandler(log *logger.Logger, schemes services.SchemeService, factors services.FactorService) *FactorHandler {
	return &FactorHandler{
		log:     log.With("handler", "FactorHandler"),
		schemes: schemes,
		factors: factors,
	}
}

// GET /api/schemes/:id/a1
func (h *FactorHandler) SchemeA1(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	view, err := h.schemes.A1View(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// PUT /api/plants/:plantId/default-factor
func (h *FactorHandler) SetPlantDefault(c *gin.Context) {
	plantID, err := uuid.Parse(c.Param("plantId"))
	if err != nil || plantID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plant_id", err)
		return
	}
	var body struct {
		FactorID uuid.UUID `json:"factor_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.factors.SetPlantDefault(c.Request.Context(), plantID, body.FactorID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
