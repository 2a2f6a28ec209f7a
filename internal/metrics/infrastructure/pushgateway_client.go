package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"holostream/internal/metrics/domain"
)

const userAgent = "holo-bot-livestream/1.0"

// Ensure PushgatewayClient implements the domain Gateway interface
var _ domain.Gateway = (*PushgatewayClient)(nil)

// PushgatewayClient talks to the Prometheus server and pushgateway over HTTP.
// Deadlines come from the caller's context.
type PushgatewayClient struct {
	client *http.Client
}

// NewPushgatewayClient creates a new pushgateway client. A nil client uses
// http.DefaultClient.
func NewPushgatewayClient(client *http.Client) *PushgatewayClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &PushgatewayClient{client: client}
}

// CheckHealth performs a GET against the collector health URL
func (c *PushgatewayClient) CheckHealth(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	return c.do(req)
}

// Push POSTs an exposition body to the pushgateway grouping URL
func (c *PushgatewayClient) Push(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("User-Agent", userAgent)

	return c.do(req)
}

func (c *PushgatewayClient) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("expected status in 200-299 range, got %s", resp.Status)
	}
	return nil
}
