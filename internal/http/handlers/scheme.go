package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kerbstone/pavetrack-backend/internal/http/response"
	"github.com/kerbstone/pavetrack-backend/internal/platform/logger"
	"github.com/kerbstone/pavetrack-backend/internal/services"
)

type SchemeHandler struct {
	log     *logger.Logger
	schemes services.SchemeService
	usage   services.UsageService
}

func NewSchemeHandler(log *logger.Logger, schemes services.SchemeService, usage services.UsageService) *SchemeHandler {
	return &SchemeHandler{
		log:     log.With("handler", "SchemeHandler"),
		schemes: schemes,
		usage:   usage,
	}
}

func schemeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_scheme_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/schemes
func (h *SchemeHandler) Create(c *gin.Context) {
	var body struct {
		Name         string  `json:"name"`
		Area         float64 `json:"area"`
		SitePostcode string  `json:"site_postcode"`
		BasePostcode string  `json:"base_postcode"`
		DistanceUnit string  `json:"distance_unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	scheme, err := h.schemes.Create(c.Request.Context(), services.CreateSchemeInput{
		Name:         body.Name,
		Area:         body.Area,
		SitePostcode: body.SitePostcode,
		BasePostcode: body.BasePostcode,
		DistanceUnit: body.DistanceUnit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, scheme)
}

// GET /api/schemes/:id
func (h *SchemeHandler) Get(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	scheme, err := h.schemes.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, scheme)
}

// POST /api/schemes/:id/products
func (h *SchemeHandler) AddProduct(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	var body struct {
		ProductID    uuid.UUID `json:"product_id"`
		PlantID      uuid.UUID `json:"plant_id"`
		MixTypeID    uuid.UUID `json:"mix_type_id"`
		DeliveryType string    `json:"delivery_type"`
		Tonnage      float64   `json:"tonnage"`
		Distance     *float64  `json:"distance,omitempty"`
		Unit         string    `json:"unit,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	line, err := h.schemes.AddMaterialLine(c.Request.Context(), id, services.AddMaterialLineInput{
		ProductID:    body.ProductID,
		PlantID:      body.PlantID,
		MixTypeID:    body.MixTypeID,
		DeliveryType: body.DeliveryType,
		Tonnage:      body.Tonnage,
		Distance:     body.Distance,
		Unit:         body.Unit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, line)
}

// DELETE /api/schemes/:id/products/:productId
func (h *SchemeHandler) DeleteProduct(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	lineID, err := uuid.Parse(c.Param("productId"))
	if err != nil || lineID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	if err := h.schemes.DeleteMaterialLine(c.Request.Context(), id, lineID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /api/schemes/:id/modes
func (h *SchemeHandler) SetModes(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	var body struct {
		InstallationMode *string `json:"installation_mode,omitempty"`
		MaterialsMode    *string `json:"materials_mode,omitempty"`
		A5FuelMode       *string `json:"a5_fuel_mode,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	scheme, err := h.schemes.SetModes(c.Request.Context(), id, services.SetModesInput{
		InstallationMode: body.InstallationMode,
		MaterialsMode:    body.MaterialsMode,
		A5FuelMode:       body.A5FuelMode,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, scheme)
}

// PATCH /api/schemes/:id/lock
func (h *SchemeHandler) SetLock(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	var body struct {
		Locked bool `json:"locked"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.schemes.SetLock(c.Request.Context(), id, body.Locked); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/schemes/:id/usage
func (h *SchemeHandler) AddUsage(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	var body struct {
		InstallationItemID uuid.UUID `json:"installation_item_id"`
		Litres             *float64  `json:"litres,omitempty"`
		DistanceKm         *float64  `json:"distance_km,omitempty"`
		OneWay             bool      `json:"one_way"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.usage.AddManualEntry(c.Request.Context(), id, services.ManualUsageInput{
		InstallationItemID: body.InstallationItemID,
		Litres:             body.Litres,
		DistanceKm:         body.DistanceKm,
		OneWay:             body.OneWay,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// POST /api/schemes/:id/usage/regenerate
func (h *SchemeHandler) RegenerateUsage(c *gin.Context) {
	id, ok := schemeID(c)
	if !ok {
		return
	}
	var body struct {
		TransportKm *float64 `json:"transport_km,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.usage.RegenerateAuto(c.Request.Context(), id, body.TransportKm); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
