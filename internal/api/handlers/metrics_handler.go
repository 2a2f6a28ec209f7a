package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	api "holostream/internal/api/application"
	metricsapp "holostream/internal/metrics/application"
)

// maxIngestBody caps POST /api/metrics bodies
const maxIngestBody = 1 << 20

// MetricsHandler serves the live store, the ingest endpoint and history
type MetricsHandler struct {
	service *api.MetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service *api.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		service: service,
	}
}

// Scrape handles GET /api/metrics
// @Summary      Scrape metrics
// @Description  Current store in the Prometheus text exposition format
// @Tags         metrics
// @Produce      plain
// @Success      200  {string}  string
// @Failure      500  {string}  string
// @Router       /metrics [get]
func (h *MetricsHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	body, err := h.service.Export()
	if err != nil {
		logger.Error("Failed to serialize metrics export", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", metricsapp.ContentType)
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Ingest handles POST /api/metrics
// @Summary      Push metrics
// @Description  Apply a batch of gauge and counter observations. The batch is rejected as a whole when any entry is invalid.
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        body  body      application.IngestRequest  true  "Metrics batch"
// @Success      200   {object}  application.SuccessResponse
// @Failure      400   {object}  application.ErrorResponse
// @Router       /metrics [post]
func (h *MetricsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIngestBody))
	if err != nil {
		logger.Warn("Failed to read metrics body", "err", err)
		respondJSONError(w, http.StatusBadRequest, "Invalid metrics format")
		return
	}

	applied, err := h.service.Ingest(body)
	if err != nil {
		logger.Warn("Rejected metrics batch", "err", err)
		respondJSONError(w, http.StatusBadRequest, "Invalid metrics format")
		return
	}

	logger.Debug("Ingested metrics", "count", applied)
	respondJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

// List handles GET /api/v1/metrics
// @Summary      List live metrics
// @Description  Every metric in the store, in first-write order
// @Tags         metrics
// @Produce      json
// @Success      200  {array}  application.MetricResponse
// @Security     ApiKeyAuth
// @Router       /v1/metrics [get]
func (h *MetricsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.List())
}

// Status handles GET /api/v1/prometheus/status
// @Summary      Collector status
// @Tags         prometheus
// @Produce      json
// @Success      200  {object}  application.StatusResponse
// @Security     ApiKeyAuth
// @Router       /v1/prometheus/status [get]
func (h *MetricsHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Status())
}

// ListSamples handles GET /api/v1/metrics/history
// @Summary      List archived metrics samples
// @Description  Get a list of archived samples with optional filtering
// @Tags         metrics
// @Produce      json
// @Param        from    query     string  false  "Start time (RFC3339)"
// @Param        to      query     string  false  "End time (RFC3339)"
// @Param        name    query     string  false  "Filter by metric name"
// @Param        type    query     string  false  "Filter by metric type"
// @Param        limit   query     int     false  "Limit results"
// @Param        offset  query     int     false  "Offset results"
// @Success      200     {array}   application.MetricsSampleResponse
// @Failure      404     {object}  application.ErrorResponse
// @Failure      500     {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /v1/metrics/history [get]
func (h *MetricsHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	req := api.ListSamplesRequest{}

	// Parse query parameters
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			req.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			req.To = &to
		}
	}

	if name := r.URL.Query().Get("name"); name != "" {
		req.Name = &name
	}

	if metricType := r.URL.Query().Get("type"); metricType != "" {
		req.Type = &metricType
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			req.Offset = offset
		}
	}

	samples, err := h.service.ListSamples(r.Context(), req)
	if errors.Is(err, api.ErrHistoryDisabled) {
		respondJSONError(w, http.StatusNotFound, "Metric history is disabled")
		return
	}
	if err != nil {
		logger.Error("Failed to list metrics history", "err", err, "filters", req)
		respondJSONError(w, http.StatusInternalServerError, "Failed to list metrics history: "+err.Error())
		return
	}

	logger.Debug("Listed metrics samples", "count", len(samples))
	respondJSON(w, http.StatusOK, samples)
}
