package handlers

import (
	"context"
	"errors"
	"time"

	api "holostream/internal/api/application"
	configdomain "holostream/internal/config/domain"
	metricsapp "holostream/internal/metrics/application"
	metricsdomain "holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
)

// offlineGateway is a Gateway whose collector is never reachable
type offlineGateway struct{}

func (offlineGateway) CheckHealth(ctx context.Context, url string) error {
	return errors.New("collector offline")
}

func (offlineGateway) Push(ctx context.Context, url string, body []byte) error {
	return errors.New("collector offline")
}

// mockMetricsRepository is a mock implementation of metricsdomain.Repository
type mockMetricsRepository struct {
	samples []metricsdomain.Sample
	filters metricsdomain.SampleFilters
	err     error
}

func (m *mockMetricsRepository) InsertSamples(ctx context.Context, samples []metricsdomain.Sample) error {
	if m.err != nil {
		return m.err
	}
	m.samples = append(m.samples, samples...)
	return nil
}

func (m *mockMetricsRepository) ListSamples(ctx context.Context, filters metricsdomain.SampleFilters) ([]metricsdomain.Sample, error) {
	m.filters = filters
	if m.err != nil {
		return nil, m.err
	}
	result := m.samples
	if filters.Offset > 0 && filters.Offset < len(result) {
		result = result[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(result) {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockMetricsRepository) DeleteSamplesBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// newTestEngine returns an engine with reporting disabled
func newTestEngine() *metricsapp.Engine {
	cfg := configdomain.DefaultCollectorConfig()
	cfg.Instance = "holo-bot-test"
	return metricsapp.NewEngine(sharedlogger.Nop{}, offlineGateway{}, cfg)
}

// newTestMetricsService wires a service around a fresh engine. repo may be nil.
func newTestMetricsService(repo metricsdomain.Repository) (*api.MetricsService, *metricsapp.Engine) {
	engine := newTestEngine()
	return api.NewMetricsService(engine, repo), engine
}
