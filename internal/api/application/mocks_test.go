package application

import (
	"context"
	"time"

	configdomain "holostream/internal/config/domain"
	metricsapp "holostream/internal/metrics/application"
	metricsdomain "holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
	"holostream/internal/shared/validation"
)

// mockEngine is a mock implementation of MetricsEngine backed by a real store
type mockEngine struct {
	*metricsapp.Store
	cfg       configdomain.CollectorConfig
	state     metricsdomain.ConnectionState
	exportErr error
	updates   int
}

func newMockEngine() *mockEngine {
	cfg := configdomain.DefaultCollectorConfig()
	cfg.Instance = "holo-bot-test"
	return &mockEngine{
		Store: metricsapp.NewStore(sharedlogger.Nop{}),
		cfg:   cfg,
		state: metricsdomain.StateDisconnected,
	}
}

func (m *mockEngine) Export() ([]byte, error) {
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return metricsapp.FormatExposition(m.GetAll())
}

func (m *mockEngine) ConnectionStatus() metricsdomain.ConnectionState {
	return m.state
}

func (m *mockEngine) Config() configdomain.CollectorConfig {
	return m.cfg
}

func (m *mockEngine) UpdateConfig(ctx context.Context, cfg configdomain.CollectorConfig) error {
	if err := validation.Check(ctx, &cfg, "prometheus"); err != nil {
		return err
	}
	m.cfg = cfg
	m.updates++
	return nil
}

// mockRepository is a mock implementation of metricsdomain.Repository
type mockRepository struct {
	samples []metricsdomain.Sample
	filters metricsdomain.SampleFilters
	err     error
}

func (m *mockRepository) InsertSamples(ctx context.Context, samples []metricsdomain.Sample) error {
	m.samples = append(m.samples, samples...)
	return m.err
}

func (m *mockRepository) ListSamples(ctx context.Context, filters metricsdomain.SampleFilters) ([]metricsdomain.Sample, error) {
	m.filters = filters
	if m.err != nil {
		return nil, m.err
	}
	return m.samples, nil
}

func (m *mockRepository) DeleteSamplesBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
