package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/http/response"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
	"github.com/kerbstone/pavetrack-backend/internal/services"
)

type ScenarioHandler struct {
	log       *logger.Logger
	scenarios services.ScenarioService
}

func NewScenarioHandler(log *logger.Logger, scenarios services.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{
		log:       log.With("handler", "ScenarioHandler"),
		scenarios: scenarios,
	}
}

func scenarioID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("scenarioId"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// GET /api/schemes/:id/scenarios
func (h *ScenarioHandler) List(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	snaps, err := h.scenarios.ListForScheme(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, snaps)
}

// POST /api/schemes/:id/scenarios
func (h *ScenarioHandler) Create(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	snap, err := h.scenarios.Create(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, snap)
}

// POST /api/schemes/:id/scenarios/:scenarioId/apply
func (h *ScenarioHandler) Apply(c *gin.Context) {
	if _, ok := schemeID(c); !ok {
		return
	}
	sid, ok := scenarioID(c)
	if !ok {
		return
	}
	if err := h.scenarios.Apply(c.Request.Context(), sid); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/schemes/:id/scenarios/:scenarioId/recapture
func (h *ScenarioHandler) Update(c *gin.Context) {
	if _, ok := schemeID(c); !ok {
		return
	}
	sid, ok := scenarioID(c)
	if !ok {
		return
	}
	snap, err := h.scenarios.Update(c.Request.Context(), sid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, snap)
}

// PATCH /api/schemes/:id/scenarios/:scenarioId/label
func (h *ScenarioHandler) Rename(c *gin.Context) {
	if _, ok := schemeID(c); !ok {
		return
	}
	sid, ok := scenarioID(c)
	if !ok {
		return
	}
	var body struct {
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.scenarios.RenameLabel(c.Request.Context(), sid, body.Label); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/schemes/:id/scenarios/:scenarioId
func (h *ScenarioHandler) Delete(c *gin.Context) {
	if _, ok := schemeID(c); !ok {
		return
	}
	sid, ok := scenarioID(c)
	if !ok {
		return
	}
	if err := h.scenarios.Delete(c.Request.Context(), sid); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
