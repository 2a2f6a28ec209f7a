package domain

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CollectorConfig describes the remote Prometheus collector and the push
// schedule used to reach it.
type CollectorConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Endpoint     string        `yaml:"endpoint"`
	Protocol     string        `yaml:"protocol"`
	Port         int           `yaml:"port"`
	Pushgateway  string        `yaml:"pushgateway"`
	JobName      string        `yaml:"job_name"`
	Instance     string        `yaml:"instance"`
	Interval     time.Duration `yaml:"scrape_interval"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// DefaultCollectorConfig returns the development defaults. Reporting is off
// until explicitly enabled.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		Enabled:      false,
		Endpoint:     "localhost",
		Protocol:     "http",
		Port:         9090,
		Pushgateway:  "localhost:9091",
		JobName:      "holo-bot-livestream",
		Interval:     15 * time.Second,
		Timeout:      5 * time.Second,
		Retries:      3,
		RetryBackoff: 500 * time.Millisecond,
		InitialDelay: 2 * time.Second,
	}
}

func (c *CollectorConfig) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string)

	if c.Interval <= 0 {
		problems["scrape_interval"] = "scrape interval should be more than zero"
	}
	if c.Timeout <= 0 {
		problems["timeout"] = "timeout should be more than zero"
	}
	if c.Retries < 0 {
		problems["retries"] = "retries cannot be negative"
	}
	if c.RetryBackoff < 0 {
		problems["retry_backoff"] = "retry backoff cannot be negative"
	}
	if c.InitialDelay < 0 {
		problems["initial_delay"] = "initial delay cannot be negative"
	}

	if !c.Enabled {
		return problems
	}

	if c.Endpoint == "" {
		problems["endpoint"] = "'endpoint' is required when reporting is enabled"
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		problems["protocol"] = "protocol must be http or https"
	}
	if c.Port <= 0 || c.Port > 65535 {
		problems["port"] = "port must be between 1 and 65535"
	}
	if c.Pushgateway == "" {
		problems["pushgateway"] = "'pushgateway' is required when reporting is enabled"
	}
	if c.JobName == "" {
		problems["job_name"] = "'job_name' is required"
	}
	if c.Instance == "" {
		problems["instance"] = "'instance' is required"
	}

	return problems
}

// HealthURL is the liveness query used by the startup health check.
func (c CollectorConfig) HealthURL() string {
	return fmt.Sprintf("%s://%s:%d/api/v1/query?query=up", c.Protocol, c.Endpoint, c.Port)
}

// PushURL is the pushgateway grouping URL for this job and instance.
func (c CollectorConfig) PushURL() string {
	base := c.Pushgateway
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = c.Protocol + "://" + base
	}
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/metrics/job/%s/instance/%s", base, url.PathEscape(c.JobName), url.PathEscape(c.Instance))
}

// ScrapeTarget is the collector address shown to operators.
func (c CollectorConfig) ScrapeTarget() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Endpoint, c.Port)
}
