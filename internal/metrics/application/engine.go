package application

import (
	"context"

	configdomain "holostream/internal/config/domain"
	"holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
)

// Ensure Engine implements the domain Service interface
var _ domain.Service = (*Engine)(nil)

// Engine is the process-wide metrics component: the store that producers
// write to and the scheduler that ships its export. Build one at startup and
// pass it to every producer and handler.
type Engine struct {
	*Store
	scheduler *Scheduler
}

// NewEngine creates a metrics engine with an empty store
func NewEngine(logger sharedlogger.Logger, gateway domain.Gateway, cfg configdomain.CollectorConfig, opts ...SchedulerOption) *Engine {
	store := NewStore(logger)
	return &Engine{
		Store:     store,
		scheduler: NewScheduler(logger, gateway, store, cfg, opts...),
	}
}

// Export renders the whole store in the text exposition format.
func (e *Engine) Export() ([]byte, error) {
	return FormatExposition(e.GetAll())
}

// ConnectionStatus is the last known collector reachability.
func (e *Engine) ConnectionStatus() domain.ConnectionState {
	return e.scheduler.State()
}

func (e *Engine) Start(ctx context.Context) {
	e.scheduler.Start(ctx)
}

func (e *Engine) Stop() {
	e.scheduler.Stop()
}

func (e *Engine) Config() configdomain.CollectorConfig {
	return e.scheduler.Config()
}

func (e *Engine) UpdateConfig(ctx context.Context, cfg configdomain.CollectorConfig) error {
	return e.scheduler.UpdateConfig(ctx, cfg)
}

func (e *Engine) PushNow(ctx context.Context) error {
	return e.scheduler.PushNow(ctx)
}

// Pushing reports whether the push loop is active.
func (e *Engine) Pushing() bool {
	return e.scheduler.Running()
}
