package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	api "holostream/internal/api/application"
)

func TestConfigHandler_GetConfig(t *testing.T) {
	engine := newTestEngine()
	handler := NewConfigHandler(api.NewConfigService(engine))

	w := httptest.NewRecorder()
	handler.GetConfig(w, httptest.NewRequest(http.MethodGet, "/api/v1/prometheus/config", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp api.CollectorConfigResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Instance != "holo-bot-test" {
		t.Errorf("Expected instance holo-bot-test, got %q", resp.Instance)
	}
	if resp.ScrapeInterval != 15 {
		t.Errorf("Expected scrape interval 15, got %v", resp.ScrapeInterval)
	}
	if resp.Status != "disconnected" {
		t.Errorf("Expected status disconnected, got %q", resp.Status)
	}
}

func TestConfigHandler_UpdateConfig(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectProblem  string
	}{
		{
			name:           "change job and interval",
			body:           `{"job_name":"holo-bot-staging","scrape_interval":30}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "empty update",
			body:           `{}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown field",
			body:           `{"interval":30}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"job_name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid protocol when enabled",
			body:           `{"enabled":true,"protocol":"ftp"}`,
			expectedStatus: http.StatusBadRequest,
			expectProblem:  "protocol",
		},
		{
			name:           "negative retries",
			body:           `{"retries":-1}`,
			expectedStatus: http.StatusBadRequest,
			expectProblem:  "retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()
			handler := NewConfigHandler(api.NewConfigService(engine))

			req := httptest.NewRequest(http.MethodPut, "/api/v1/prometheus/config", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.UpdateConfig(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectProblem != "" {
				var resp api.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if _, ok := resp.Problems[tt.expectProblem]; !ok {
					t.Errorf("Expected problem %q, got %v", tt.expectProblem, resp.Problems)
				}
			}
		})
	}
}

func TestConfigHandler_UpdateConfigApplies(t *testing.T) {
	engine := newTestEngine()
	handler := NewConfigHandler(api.NewConfigService(engine))

	body := `{"job_name":"holo-bot-staging","scrape_interval":30,"timeout":2500}`
	w := httptest.NewRecorder()
	handler.UpdateConfig(w, httptest.NewRequest(http.MethodPut, "/api/v1/prometheus/config", bytes.NewBufferString(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	cfg := engine.Config()
	if cfg.JobName != "holo-bot-staging" {
		t.Errorf("Expected job holo-bot-staging, got %q", cfg.JobName)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Expected interval 30s, got %v", cfg.Interval)
	}
	if cfg.Timeout != 2500*time.Millisecond {
		t.Errorf("Expected timeout 2.5s, got %v", cfg.Timeout)
	}
	if cfg.Instance != "holo-bot-test" {
		t.Errorf("Expected instance to be kept, got %q", cfg.Instance)
	}
}
