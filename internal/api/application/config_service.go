package application

import (
	"context"
)

// ConfigService reads and replaces the collector configuration at runtime
type ConfigService struct {
	engine MetricsEngine
}

// NewConfigService creates a new config service
func NewConfigService(engine MetricsEngine) *ConfigService {
	return &ConfigService{engine: engine}
}

// Get returns the active collector configuration
func (s *ConfigService) Get() CollectorConfigResponse {
	return ToCollectorConfigResponse(s.engine.Config(), s.engine.ConnectionStatus())
}

// Update merges a partial configuration into the active one and applies it
func (s *ConfigService) Update(ctx context.Context, update CollectorConfigUpdate) (CollectorConfigResponse, error) {
	cfg := update.Apply(s.engine.Config())
	if err := s.engine.UpdateConfig(ctx, cfg); err != nil {
		return CollectorConfigResponse{}, err
	}
	return s.Get(), nil
}
