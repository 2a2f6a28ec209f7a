package application

import (
	"encoding/json"
	"math"
	"time"

	configdomain "holostream/internal/config/domain"
	metricsapp "holostream/internal/metrics/application"
	metricsdomain "holostream/internal/metrics/domain"
)

// Float is a metric value that survives JSON encoding when it is NaN or
// infinite. Non-finite values are written as the strings "NaN", "+Inf" and
// "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	s := metricsapp.FormatValue(v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(s)
	}
	return []byte(s), nil
}

// MetricResponse represents a live metric in API responses
type MetricResponse struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Value       Float             `json:"value"`
	Labels      map[string]string `json:"labels,omitempty"`
	Help        string            `json:"help,omitempty"`
	LastUpdated time.Time         `json:"last_updated"`
}

// MetricsSampleResponse represents an archived metrics sample in API responses
type MetricsSampleResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Value     Float             `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// ListSamplesRequest represents query parameters for listing metrics samples
type ListSamplesRequest struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Name   *string    `json:"name,omitempty"`
	Type   *string    `json:"type,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

// IngestRequest is the body of POST /api/metrics
type IngestRequest struct {
	Metrics json.RawMessage `json:"metrics"`
}

// IngestMetric is one externally supplied observation
type IngestMetric struct {
	Type   string            `json:"type"`
	Name   string            `json:"name"`
	Value  *float64          `json:"value"`
	Labels map[string]string `json:"labels,omitempty"`
	Help   string            `json:"help,omitempty"`
}

// SuccessResponse acknowledges a write
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatusResponse summarises the engine for status badges
type StatusResponse struct {
	Status  string `json:"status"`
	Enabled bool   `json:"enabled"`
	Metrics int    `json:"metrics"`
}

// FeedMessage is one frame of the live metrics feed
type FeedMessage struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Metrics   []MetricResponse `json:"metrics"`
}

// CollectorConfigResponse represents the collector configuration in API
// responses. Durations are in seconds for the interval and milliseconds
// otherwise.
type CollectorConfigResponse struct {
	Enabled        bool    `json:"enabled"`
	Endpoint       string  `json:"endpoint"`
	Protocol       string  `json:"protocol"`
	Port           int     `json:"port"`
	Pushgateway    string  `json:"pushgateway"`
	JobName        string  `json:"job_name"`
	Instance       string  `json:"instance"`
	ScrapeInterval float64 `json:"scrape_interval"`
	Timeout        int64   `json:"timeout"`
	Retries        int     `json:"retries"`
	RetryBackoff   int64   `json:"retry_backoff"`
	Status         string  `json:"status"`
}

// CollectorConfigUpdate is a partial collector configuration. Absent fields
// keep their current value.
type CollectorConfigUpdate struct {
	Enabled        *bool    `json:"enabled,omitempty"`
	Endpoint       *string  `json:"endpoint,omitempty"`
	Protocol       *string  `json:"protocol,omitempty"`
	Port           *int     `json:"port,omitempty"`
	Pushgateway    *string  `json:"pushgateway,omitempty"`
	JobName        *string  `json:"job_name,omitempty"`
	Instance       *string  `json:"instance,omitempty"`
	ScrapeInterval *float64 `json:"scrape_interval,omitempty"`
	Timeout        *int64   `json:"timeout,omitempty"`
	Retries        *int     `json:"retries,omitempty"`
	RetryBackoff   *int64   `json:"retry_backoff,omitempty"`
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status        string                `json:"status"`
	Timestamp     time.Time             `json:"timestamp"`
	Version       string                `json:"version"`
	Environment   string                `json:"environment"`
	Uptime        float64               `json:"uptime"`
	Memory        MemoryResponse        `json:"memory"`
	Services      ServicesResponse      `json:"services"`
	Configuration ConfigurationResponse `json:"configuration"`
}

type MemoryResponse struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
	RSS   uint64 `json:"rss"`
}

type ServicesResponse struct {
	Prometheus PrometheusServiceResponse `json:"prometheus"`
}

type PrometheusServiceResponse struct {
	Enabled  bool   `json:"enabled"`
	Status   string `json:"status"`
	Endpoint string `json:"endpoint"`
}

type ConfigurationResponse struct {
	DemoMode  bool              `json:"demoMode"`
	Streaming StreamingResponse `json:"streaming"`
}

type StreamingResponse struct {
	Quality string `json:"quality"`
	Bitrate int    `json:"bitrate"`
	FPS     int    `json:"fps"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error    string            `json:"error"`
	Problems map[string]string `json:"problems,omitempty"`
}

// ToMetricResponse converts a live metric to an API response
func ToMetricResponse(m metricsdomain.Metric) MetricResponse {
	return MetricResponse{
		Name:        m.Name,
		Type:        string(m.Kind),
		Value:       Float(m.Value),
		Labels:      m.Labels,
		Help:        m.Help,
		LastUpdated: m.LastUpdated,
	}
}

// ToMetricsSampleResponse converts a domain sample to an API response
func ToMetricsSampleResponse(s metricsdomain.Sample) MetricsSampleResponse {
	return MetricsSampleResponse{
		Timestamp: s.Timestamp,
		Type:      string(s.Kind),
		Name:      s.Name,
		Value:     Float(s.Value),
		Labels:    s.Labels,
	}
}

// ToCollectorConfigResponse converts a collector config to an API response
func ToCollectorConfigResponse(cfg configdomain.CollectorConfig, state metricsdomain.ConnectionState) CollectorConfigResponse {
	return CollectorConfigResponse{
		Enabled:        cfg.Enabled,
		Endpoint:       cfg.Endpoint,
		Protocol:       cfg.Protocol,
		Port:           cfg.Port,
		Pushgateway:    cfg.Pushgateway,
		JobName:        cfg.JobName,
		Instance:       cfg.Instance,
		ScrapeInterval: cfg.Interval.Seconds(),
		Timeout:        cfg.Timeout.Milliseconds(),
		Retries:        cfg.Retries,
		RetryBackoff:   cfg.RetryBackoff.Milliseconds(),
		Status:         state.String(),
	}
}

// Apply merges the update into cfg
func (u CollectorConfigUpdate) Apply(cfg configdomain.CollectorConfig) configdomain.CollectorConfig {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.Endpoint != nil {
		cfg.Endpoint = *u.Endpoint
	}
	if u.Protocol != nil {
		cfg.Protocol = *u.Protocol
	}
	if u.Port != nil {
		cfg.Port = *u.Port
	}
	if u.Pushgateway != nil {
		cfg.Pushgateway = *u.Pushgateway
	}
	if u.JobName != nil {
		cfg.JobName = *u.JobName
	}
	if u.Instance != nil {
		cfg.Instance = *u.Instance
	}
	if u.ScrapeInterval != nil {
		cfg.Interval = time.Duration(*u.ScrapeInterval * float64(time.Second))
	}
	if u.Timeout != nil {
		cfg.Timeout = time.Duration(*u.Timeout) * time.Millisecond
	}
	if u.Retries != nil {
		cfg.Retries = *u.Retries
	}
	if u.RetryBackoff != nil {
		cfg.RetryBackoff = time.Duration(*u.RetryBackoff) * time.Millisecond
	}
	return cfg
}
