package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPushgatewayClient_Push(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{"accepted", http.StatusOK, false},
		{"accepted no content", http.StatusAccepted, false},
		{"bad request", http.StatusBadRequest, true},
		{"unavailable", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath, gotType, gotAgent, gotBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				gotType = r.Header.Get("Content-Type")
				gotAgent = r.Header.Get("User-Agent")
				body, _ := io.ReadAll(r.Body)
				gotBody = string(body)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewPushgatewayClient(server.Client())
			err := client.Push(context.Background(), server.URL+"/metrics/job/holo/instance/a", []byte("up 1\n"))

			if tt.wantError && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotMethod != http.MethodPost {
				t.Errorf("expected POST, got %s", gotMethod)
			}
			if gotPath != "/metrics/job/holo/instance/a" {
				t.Errorf("unexpected path %q", gotPath)
			}
			if gotType != "text/plain" {
				t.Errorf("expected text/plain, got %q", gotType)
			}
			if gotAgent != userAgent {
				t.Errorf("expected user agent %q, got %q", userAgent, gotAgent)
			}
			if gotBody != "up 1\n" {
				t.Errorf("unexpected body %q", gotBody)
			}
		})
	}
}

func TestPushgatewayClient_CheckHealth(t *testing.T) {
	var gotQuery, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewPushgatewayClient(nil)
	if err := client.CheckHealth(context.Background(), server.URL+"/api/v1/query?query=up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "query=up" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if gotAccept != "application/json" {
		t.Errorf("expected application/json accept header, got %q", gotAccept)
	}
}

func TestPushgatewayClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewPushgatewayClient(server.Client()).Push(ctx, server.URL, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPushgatewayClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if err := NewPushgatewayClient(nil).CheckHealth(context.Background(), url); err == nil {
		t.Error("expected error for closed server")
	}
}
