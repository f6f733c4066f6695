package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kerbstone/pavetrack-backend/internal/http/response"
	"github.com/kerbstone/pavetrack-backend/internal/services"
)

// respondServiceError maps the service error taxonomy onto HTTP codes.
// Partial failures surface as 500 with the failed step in the message;
// earlier steps' effects are already committed and the client needs to know.
func respondServiceError(c *gin.Context, err error) {
	var pf *services.PartialFailureError
	switch {
	case errors.Is(err, services.ErrValidation):
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, services.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrScenarioLimit):
		response.RespondError(c, http.StatusConflict, "scenario_limit", err)
	case errors.Is(err, services.ErrSchemeLocked):
		response.RespondError(c, http.StatusConflict, "scheme_locked", err)
	case errors.Is(err, services.ErrUnresolvedLocation):
		response.RespondError(c, http.StatusUnprocessableEntity, "unresolved_location", err)
	case errors.Is(err, services.ErrDistanceUnavailable):
		response.RespondError(c, http.StatusBadGateway, "distance_unavailable", err)
	case errors.As(err, &pf):
		response.RespondError(c, http.StatusInternalServerError, "partial_failure", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
