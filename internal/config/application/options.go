package application

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Option binds one setting to its CLI flag and environment variables
type Option struct {
	Flag  string
	Usage string
	Env   []string
	Set   func(c *RuntimeConfig, value string) error
	// Bool options may be given as a bare flag
	Bool  bool
}

// Options lists every setting that can be given on the command line or in
// the environment.
var Options = []Option{
	{"api-key", "API key required for /api/v1 routes", []string{"HOLO_API_KEY"}, setString(func(c *RuntimeConfig) *string { return &c.APIKey }), false},
	{"port", "API server port", []string{"HOLO_API_PORT"}, setString(func(c *RuntimeConfig) *string { return &c.APIPort }), false},
	{"dev", "Enable development mode (swagger UI)", []string{"HOLO_DEV_MODE"}, setBool(func(c *RuntimeConfig) *bool { return &c.DevMode }), true},
	{"demo", "Feed the engine with simulated producers", []string{"HOLO_DEMO_MODE", "DEMO_MODE"}, setBool(func(c *RuntimeConfig) *bool { return &c.DemoMode }), true},
	{"log-level", "Log level (DEBUG, INFO, WARN, ERROR)", []string{"HOLO_LOG_LEVEL"}, setString(func(c *RuntimeConfig) *string { return &c.LogLevel }), false},
	{"log-format", "Log format (text, json)", []string{"HOLO_LOG_FORMAT"}, setString(func(c *RuntimeConfig) *string { return &c.LogFormat }), false},
	{"log-output", "Log output (stdout, stderr, or file path)", []string{"HOLO_LOG_OUTPUT"}, setString(func(c *RuntimeConfig) *string { return &c.LogOutput }), false},
	{"db", "SQLite database path for metric history", []string{"HOLO_DB_PATH"}, setString(func(c *RuntimeConfig) *string { return &c.DBPath }), false},
	{"history-retention", "How long metric history is kept (hours or duration)", []string{"HOLO_HISTORY_RETENTION", "METRICS_RETENTION_HOURS"}, setDuration(time.Hour, func(c *RuntimeConfig) *time.Duration { return &c.HistoryRetention }), false},
	{"env", "Deployment environment", []string{"HOLO_ENV"}, setString(func(c *RuntimeConfig) *string { return &c.Environment }), false},
	{"version", "Version reported by health series", []string{"HOLO_VERSION"}, setString(func(c *RuntimeConfig) *string { return &c.Version }), false},

	{"prometheus-enabled", "Push metrics to the Prometheus pushgateway", []string{"PROMETHEUS_ENABLED"}, setBool(func(c *RuntimeConfig) *bool { return &c.Prometheus.Enabled }), true},
	{"prometheus-endpoint", "Prometheus server host", []string{"PROMETHEUS_ENDPOINT"}, setString(func(c *RuntimeConfig) *string { return &c.Prometheus.Endpoint }), false},
	{"prometheus-protocol", "Prometheus protocol (http, https)", []string{"PROMETHEUS_PROTOCOL"}, setString(func(c *RuntimeConfig) *string { return &c.Prometheus.Protocol }), false},
	{"prometheus-port", "Prometheus server port", []string{"PROMETHEUS_PORT"}, setInt(func(c *RuntimeConfig) *int { return &c.Prometheus.Port }), false},
	{"pushgateway", "Pushgateway address", []string{"PROMETHEUS_PUSHGATEWAY_URL"}, setString(func(c *RuntimeConfig) *string { return &c.Prometheus.Pushgateway }), false},
	{"job", "Pushgateway job name", []string{"PROMETHEUS_JOB_NAME"}, setString(func(c *RuntimeConfig) *string { return &c.Prometheus.JobName }), false},
	{"instance", "Pushgateway instance label", []string{"PROMETHEUS_INSTANCE"}, setString(func(c *RuntimeConfig) *string { return &c.Prometheus.Instance }), false},
	{"scrape-interval", "Push interval (seconds or duration)", []string{"PROMETHEUS_SCRAPE_INTERVAL"}, setDuration(time.Second, func(c *RuntimeConfig) *time.Duration { return &c.Prometheus.Interval }), false},
	{"timeout", "Collector request timeout (milliseconds or duration)", []string{"PROMETHEUS_TIMEOUT"}, setDuration(time.Millisecond, func(c *RuntimeConfig) *time.Duration { return &c.Prometheus.Timeout }), false},
	{"retries", "Extra push attempts per cycle", []string{"PROMETHEUS_RETRIES"}, setInt(func(c *RuntimeConfig) *int { return &c.Prometheus.Retries }), false},
	{"retry-backoff", "Pause between push attempts (milliseconds or duration)", []string{"PROMETHEUS_RETRY_BACKOFF"}, setDuration(time.Millisecond, func(c *RuntimeConfig) *time.Duration { return &c.Prometheus.RetryBackoff }), false},

	{"stream-quality", "Stream quality label", []string{"STREAM_QUALITY"}, setString(func(c *RuntimeConfig) *string { return &c.Streaming.Quality }), false},
	{"stream-bitrate", "Stream bitrate in kbps", []string{"STREAM_BITRATE"}, setInt(func(c *RuntimeConfig) *int { return &c.Streaming.Bitrate }), false},
	{"stream-fps", "Stream frames per second", []string{"STREAM_FPS"}, setInt(func(c *RuntimeConfig) *int { return &c.Streaming.FPS }), false},
}

func setString(field func(*RuntimeConfig) *string) func(*RuntimeConfig, string) error {
	return func(c *RuntimeConfig, value string) error {
		*field(c) = value
		return nil
	}
}

func setBool(field func(*RuntimeConfig) *bool) func(*RuntimeConfig, string) error {
	return func(c *RuntimeConfig, value string) error {
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func setInt(field func(*RuntimeConfig) *int) func(*RuntimeConfig, string) error {
	return func(c *RuntimeConfig, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("not an integer")
		}
		*field(c) = n
		return nil
	}
}

// setDuration accepts a bare number in unit or a Go duration string.
func setDuration(unit time.Duration, field func(*RuntimeConfig) *time.Duration) func(*RuntimeConfig, string) error {
	return func(c *RuntimeConfig, value string) error {
		d, err := parseDuration(value, unit)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}

func parseDuration(value string, unit time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(n * float64(unit)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("not a duration")
	}
	return d, nil
}
