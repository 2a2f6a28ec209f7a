package handlers

import (
	"net/http"

	api "holostream/internal/api/application"
)

// HealthHandler reports process liveness
type HealthHandler struct {
	service *api.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *api.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health handles GET /api/health
// @Summary      Health check
// @Description  Liveness report. 503 while starting up or when the heap is nearly exhausted.
// @Tags         health
// @Produce      json
// @Success      200  {object}  application.HealthResponse
// @Failure      503  {object}  application.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp, healthy := h.service.Check(r.Context())

	w.Header().Set("Cache-Control", "no-cache")
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}

// HealthHead handles HEAD /api/health
func (h *HealthHandler) HealthHead(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	if h.service.Healthy() {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
}
