package application

import (
	"context"
	"errors"
	"fmt"

	configdomain "holostream/internal/config/domain"
	metricsdomain "holostream/internal/metrics/domain"
)

// ErrHistoryDisabled is returned when no history database is configured
var ErrHistoryDisabled = errors.New("metric history is disabled")

// MetricsEngine is the part of the metrics engine exposed over HTTP
type MetricsEngine interface {
	Export() ([]byte, error)
	GetAll() []metricsdomain.Metric
	Len() int
	Apply(m metricsdomain.Metric) error
	ConnectionStatus() metricsdomain.ConnectionState
	Config() configdomain.CollectorConfig
	UpdateConfig(ctx context.Context, cfg configdomain.CollectorConfig) error
}

// MetricsService serves the live store and the archived history
type MetricsService struct {
	engine MetricsEngine
	repo   metricsdomain.Repository
}

// NewMetricsService creates a new metrics service. repo may be nil when
// history is disabled.
func NewMetricsService(engine MetricsEngine, repo metricsdomain.Repository) *MetricsService {
	return &MetricsService{
		engine: engine,
		repo:   repo,
	}
}

// Export renders the store in the text exposition format
func (s *MetricsService) Export() ([]byte, error) {
	return s.engine.Export()
}

// Ingest validates the whole batch and then applies it. It returns the
// number of applied entries.
func (s *MetricsService) Ingest(body []byte) (int, error) {
	metrics, err := ParseIngest(body)
	if err != nil {
		return 0, err
	}
	for _, m := range metrics {
		if err := s.engine.Apply(m); err != nil {
			return 0, fmt.Errorf("failed to apply %s: %w", m.Name, err)
		}
	}
	return len(metrics), nil
}

// List returns every live metric in store order
func (s *MetricsService) List() []MetricResponse {
	all := s.engine.GetAll()
	responses := make([]MetricResponse, len(all))
	for i, m := range all {
		responses[i] = ToMetricResponse(m)
	}
	return responses
}

// Status summarises collector connectivity and store size
func (s *MetricsService) Status() StatusResponse {
	return StatusResponse{
		Status:  s.engine.ConnectionStatus().String(),
		Enabled: s.engine.Config().Enabled,
		Metrics: s.engine.Len(),
	}
}

// ListSamples returns archived samples matching the filters
func (s *MetricsService) ListSamples(ctx context.Context, req ListSamplesRequest) ([]MetricsSampleResponse, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}

	var kind *metricsdomain.Kind
	if req.Type != nil {
		k := metricsdomain.Kind(*req.Type)
		kind = &k
	}

	filters := metricsdomain.SampleFilters{
		From:   req.From,
		To:     req.To,
		Name:   req.Name,
		Kind:   kind,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if filters.Limit <= 0 {
		filters.Limit = 100
	}

	samples, err := s.repo.ListSamples(ctx, filters)
	if err != nil {
		return nil, err
	}

	responses := make([]MetricsSampleResponse, len(samples))
	for i, sample := range samples {
		responses[i] = ToMetricsSampleResponse(sample)
	}

	return responses, nil
}
