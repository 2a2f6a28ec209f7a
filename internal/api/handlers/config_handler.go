package handlers

import (
	"encoding/json"
	"net/http"

	api "holostream/internal/api/application"
)

// ConfigHandler handles runtime collector configuration
type ConfigHandler struct {
	service *api.ConfigService
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(service *api.ConfigService) *ConfigHandler {
	return &ConfigHandler{
		service: service,
	}
}

// UpdateConfig handles PUT /api/v1/prometheus/config
// @Summary      Update collector configuration
// @Description  Merge a partial collector configuration and restart pushing when needed
// @Tags         prometheus
// @Accept       json
// @Produce      json
// @Param        config  body      application.CollectorConfigUpdate  true  "Partial configuration"
// @Success      200     {object}  application.CollectorConfigResponse
// @Failure      400     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/prometheus/config [put]
func (h *ConfigHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	var update api.CollectorConfigUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&update); err != nil {
		logger.Warn("Invalid collector config body", "err", err)
		respondJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Update(r.Context(), update)
	if err != nil {
		logger.Warn("Rejected collector config", "err", err)
		respondValidationError(w, "Invalid collector configuration", err)
		return
	}

	logger.Info("Collector configuration updated", "enabled", resp.Enabled, "pushgateway", resp.Pushgateway)
	respondJSON(w, http.StatusOK, resp)
}

// GetConfig handles GET /api/v1/prometheus/config
// @Summary      Get collector configuration
// @Tags         prometheus
// @Produce      json
// @Success      200  {object}  application.CollectorConfigResponse
// @Security     ApiKeyAuth
// @Router       /v1/prometheus/config [get]
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Get())
}
