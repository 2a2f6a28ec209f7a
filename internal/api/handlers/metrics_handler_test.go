package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/common/expfmt"

	api "holostream/internal/api/application"
	metricsapp "holostream/internal/metrics/application"
	metricsdomain "holostream/internal/metrics/domain"
)

func TestMetricsHandler_Scrape(t *testing.T) {
	service, engine := newTestMetricsService(nil)
	engine.SetGauge("stream_viewers", 42, map[string]string{"platform": "youtube"}, "Current viewers")
	engine.IncrementCounter("chat_messages_total", 3, nil, "Chat messages received")

	handler := NewMetricsHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w := httptest.NewRecorder()

	handler.Scrape(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != metricsapp.ContentType {
		t.Errorf("Expected Content-Type %q, got %q", metricsapp.ContentType, got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
		t.Errorf("Unexpected Cache-Control %q", got)
	}
	if got := w.Header().Get("Expires"); got != "0" {
		t.Errorf("Expected Expires 0, got %q", got)
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(strings.NewReader(w.Body.String()))
	if err != nil {
		t.Fatalf("Export does not parse: %v\n%s", err, w.Body.String())
	}
	viewers, ok := families["stream_viewers"]
	if !ok {
		t.Fatalf("Expected stream_viewers family, got %v", families)
	}
	if got := viewers.GetMetric()[0].GetGauge().GetValue(); got != 42 {
		t.Errorf("Expected stream_viewers 42, got %v", got)
	}
	if _, ok := families["chat_messages_total"]; !ok {
		t.Errorf("Expected chat_messages_total family")
	}
}

func TestMetricsHandler_ScrapeEmpty(t *testing.T) {
	service, _ := newTestMetricsService(nil)
	handler := NewMetricsHandler(service)

	w := httptest.NewRecorder()
	handler.Scrape(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestMetricsHandler_Ingest(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLen    int
	}{
		{
			name:           "gauge and counter",
			body:           `{"metrics":[{"type":"gauge","name":"stream_bitrate","value":4000},{"type":"counter","name":"donations_total","value":2,"labels":{"currency":"usd"}}]}`,
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name:           "unknown types are skipped",
			body:           `{"metrics":[{"type":"histogram","name":"latency","value":1},{"type":"gauge","name":"fps","value":60}]}`,
			expectedStatus: http.StatusOK,
			expectedLen:    1,
		},
		{
			name:           "empty batch",
			body:           `{"metrics":[]}`,
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name:           "metrics not an array",
			body:           `{"metrics":{"name":"fps"}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing metrics",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"metrics":[`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "one invalid entry rejects the batch",
			body:           `{"metrics":[{"type":"gauge","name":"fps","value":60},{"type":"gauge","name":"bad name","value":1}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative counter",
			body:           `{"metrics":[{"type":"counter","name":"donations_total","value":-1}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "newline in name",
			body:           `{"metrics":[{"type":"gauge","name":"ok 1\nholo_bot_stream_active{language=\"en\"} 0\n#","value":1}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid label key",
			body:           `{"metrics":[{"type":"gauge","name":"fps","value":60,"labels":{"stream language":"en"}}]}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, engine := newTestMetricsService(nil)
			handler := NewMetricsHandler(service)

			req := httptest.NewRequest(http.MethodPost, "/api/metrics", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Ingest(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				var resp api.SuccessResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if !resp.Success {
					t.Errorf("Expected success true")
				}
			} else {
				var resp api.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.Error != "Invalid metrics format" {
					t.Errorf("Expected error %q, got %q", "Invalid metrics format", resp.Error)
				}
				if resp.Problems != nil {
					t.Errorf("Expected bare error body, got problems %v", resp.Problems)
				}
			}

			if got := engine.Len(); got != tt.expectedLen {
				t.Errorf("Expected %d metrics in store, got %d", tt.expectedLen, got)
			}
		})
	}
}

func TestMetricsHandler_IngestTooLarge(t *testing.T) {
	service, engine := newTestMetricsService(nil)
	handler := NewMetricsHandler(service)

	body := `{"metrics":[],"pad":"` + strings.Repeat("x", maxIngestBody) + `"}`
	w := httptest.NewRecorder()
	handler.Ingest(w, httptest.NewRequest(http.MethodPost, "/api/metrics", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if engine.Len() != 0 {
		t.Errorf("Expected empty store")
	}
}

func TestMetricsHandler_List(t *testing.T) {
	service, engine := newTestMetricsService(nil)
	engine.SetGauge("stream_viewers", 10, nil, "")
	engine.SetGauge("stream_fps", 60, nil, "")

	handler := NewMetricsHandler(service)
	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp []api.MetricResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("Expected 2 metrics, got %d", len(resp))
	}
	if resp[0].Name != "stream_viewers" || resp[1].Name != "stream_fps" {
		t.Errorf("Expected first-write order, got %s, %s", resp[0].Name, resp[1].Name)
	}
}

func TestMetricsHandler_Status(t *testing.T) {
	service, engine := newTestMetricsService(nil)
	engine.SetGauge("stream_viewers", 10, nil, "")

	handler := NewMetricsHandler(service)
	w := httptest.NewRecorder()
	handler.Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/prometheus/status", nil))

	var resp api.StatusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != metricsdomain.StateDisconnected.String() {
		t.Errorf("Expected status %q, got %q", metricsdomain.StateDisconnected, resp.Status)
	}
	if resp.Enabled {
		t.Errorf("Expected reporting disabled")
	}
	if resp.Metrics != 1 {
		t.Errorf("Expected 1 metric, got %d", resp.Metrics)
	}
}

func TestMetricsHandler_ListSamples(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	samples := []metricsdomain.Sample{
		metricsdomain.NewSample(now, metricsdomain.KindGauge, "stream_viewers", 10, nil),
		metricsdomain.NewSample(now.Add(-time.Minute), metricsdomain.KindGauge, "stream_viewers", 8, nil),
		metricsdomain.NewSample(now.Add(-2*time.Minute), metricsdomain.KindCounter, "chat_messages_total", 5, nil),
	}

	tests := []struct {
		name           string
		query          string
		repoErr        error
		expectedStatus int
		expectedCount  int
		expectedLimit  int
		expectName     bool
		expectFrom     bool
	}{
		{
			name:           "all samples",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedLimit:  100,
		},
		{
			name:           "limit and offset",
			query:          "?limit=1&offset=1",
			expectedStatus: http.StatusOK,
			expectedCount:  1,
			expectedLimit:  1,
		},
		{
			name:           "name and from filters",
			query:          "?name=stream_viewers&from=" + now.Add(-time.Hour).Format(time.RFC3339),
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedLimit:  100,
			expectName:     true,
			expectFrom:     true,
		},
		{
			name:           "invalid params are ignored",
			query:          "?limit=abc&from=yesterday",
			expectedStatus: http.StatusOK,
			expectedCount:  3,
			expectedLimit:  100,
		},
		{
			name:           "repository error",
			repoErr:        errors.New("disk full"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockMetricsRepository{samples: samples, err: tt.repoErr}
			service, _ := newTestMetricsService(repo)
			handler := NewMetricsHandler(service)

			w := httptest.NewRecorder()
			handler.ListSamples(w, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/history"+tt.query, nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp []api.MetricsSampleResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(resp) != tt.expectedCount {
				t.Errorf("Expected %d samples, got %d", tt.expectedCount, len(resp))
			}
			if repo.filters.Limit != tt.expectedLimit {
				t.Errorf("Expected limit %d, got %d", tt.expectedLimit, repo.filters.Limit)
			}
			if (repo.filters.Name != nil) != tt.expectName {
				t.Errorf("Expected name filter set=%v", tt.expectName)
			}
			if (repo.filters.From != nil) != tt.expectFrom {
				t.Errorf("Expected from filter set=%v", tt.expectFrom)
			}
		})
	}
}

func TestMetricsHandler_ListSamplesDisabled(t *testing.T) {
	service, _ := newTestMetricsService(nil)
	handler := NewMetricsHandler(service)

	w := httptest.NewRecorder()
	handler.ListSamples(w, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/history", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
