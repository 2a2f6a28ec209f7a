package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"holostream/internal/shared/validation"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holostream.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadRuntimeConfig_Defaults(t *testing.T) {
	cfg, err := LoadRuntimeConfig(context.Background(), "", envMap(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.APIPort)
	}
	if cfg.Prometheus.Enabled {
		t.Error("reporting should be disabled by default")
	}
	if cfg.Prometheus.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Prometheus.Interval)
	}
	if cfg.Prometheus.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Prometheus.Timeout)
	}
	if cfg.Prometheus.JobName != "holo-bot-livestream" {
		t.Errorf("unexpected job name %q", cfg.Prometheus.JobName)
	}
	if !regexp.MustCompile(`^holo-bot-development-[0-9a-f]{8}$`).MatchString(cfg.Prometheus.Instance) {
		t.Errorf("unexpected default instance %q", cfg.Prometheus.Instance)
	}
	if cfg.DBPath != "" {
		t.Errorf("history should be off by default, got %q", cfg.DBPath)
	}
}

func TestLoadRuntimeConfig_Precedence(t *testing.T) {
	path := writeConfigFile(t, `
api_port: "9000"
log_level: DEBUG
prometheus:
  enabled: true
  endpoint: prom.file
  pushgateway: push.file:9091
  instance: from-file
  scrape_interval: 30s
streaming:
  quality: 720p
`)

	env := envMap(map[string]string{
		"PROMETHEUS_ENDPOINT":        "prom.env",
		"PROMETHEUS_SCRAPE_INTERVAL": "20",
		"PROMETHEUS_TIMEOUT":         "2500",
		"STREAM_FPS":                 "60",
	})
	flags := map[string]string{
		"prometheus-endpoint": "prom.flag",
		"port":                "9100",
	}

	cfg, err := LoadRuntimeConfig(context.Background(), path, env, flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"flag beats env and file", cfg.Prometheus.Endpoint, "prom.flag"},
		{"flag beats file", cfg.APIPort, "9100"},
		{"env beats file", cfg.Prometheus.Interval, 20 * time.Second},
		{"env in milliseconds", cfg.Prometheus.Timeout, 2500 * time.Millisecond},
		{"env over default", cfg.Streaming.FPS, 60},
		{"file over default", cfg.Streaming.Quality, "720p"},
		{"file instance", cfg.Prometheus.Instance, "from-file"},
		{"file pushgateway", cfg.Prometheus.Pushgateway, "push.file:9091"},
		{"file enabled", cfg.Prometheus.Enabled, true},
		{"default kept", cfg.Prometheus.JobName, "holo-bot-livestream"},
		{"config path", cfg.ConfigPath, path},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadRuntimeConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		flags     map[string]string
		wantField string
	}{
		{
			name:      "non numeric port from env",
			env:       map[string]string{"PROMETHEUS_PORT": "ninety"},
			wantField: "PROMETHEUS_PORT",
		},
		{
			name:      "bad boolean flag",
			flags:     map[string]string{"prometheus-enabled": "maybe"},
			wantField: "prometheus-enabled",
		},
		{
			name:      "bad duration",
			env:       map[string]string{"PROMETHEUS_SCRAPE_INTERVAL": "often"},
			wantField: "PROMETHEUS_SCRAPE_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRuntimeConfig(context.Background(), "", envMap(tt.env), tt.flags)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestLoadRuntimeConfig_Validation(t *testing.T) {
	env := envMap(map[string]string{
		"HOLO_API_PORT":       "0",
		"HOLO_LOG_FORMAT":     "xml",
		"PROMETHEUS_ENABLED":  "true",
		"PROMETHEUS_PROTOCOL": "ftp",
	})

	_, err := LoadRuntimeConfig(context.Background(), "", env, nil)
	var valErr *validation.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	for _, field := range []string{"api_port", "log_format", "prometheus.protocol"} {
		if _, ok := valErr.Problems[field]; !ok {
			t.Errorf("expected problem for %q, got %v", field, valErr.Problems)
		}
	}
	if valErr.Path != "config" {
		t.Errorf("expected path config, got %q", valErr.Path)
	}
}

func TestApplyEnv_FirstKeyWins(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"HOLO_DEMO_MODE": "no",
		"DEMO_MODE":      "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DemoMode {
		t.Error("HOLO_DEMO_MODE should take precedence over DEMO_MODE")
	}

	cfg = DefaultRuntimeConfig()
	if err := cfg.ApplyEnv(envMap(map[string]string{"DEMO_MODE": "1", "METRICS_RETENTION_HOURS": "48"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DemoMode {
		t.Error("DEMO_MODE should enable demo mode")
	}
	if cfg.HistoryRetention != 48*time.Hour {
		t.Errorf("expected 48h retention, got %v", cfg.HistoryRetention)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{"empty file keeps defaults", "", false},
		{"partial file", "demo_mode: true\n", false},
		{"unknown key", "prometheus:\n  endpoints: nope\n", true},
		{"bad duration", "prometheus:\n  timeout: soon\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRuntimeConfig()
			err := LoadFile(writeConfigFile(t, tt.content), cfg)
			if tt.wantError && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.wantError && cfg.APIPort != "8080" {
				t.Errorf("defaults overwritten: port %q", cfg.APIPort)
			}
		})
	}

	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), DefaultRuntimeConfig()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		value string
		unit  time.Duration
		want  time.Duration
	}{
		{"15", time.Second, 15 * time.Second},
		{"5000", time.Millisecond, 5 * time.Second},
		{"1.5", time.Second, 1500 * time.Millisecond},
		{"2m", time.Second, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseDuration(tt.value, tt.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
