package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	configdomain "holostream/internal/config/domain"
	"holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
	"holostream/internal/shared/validation"
)

// ErrDisabled is returned by on-demand pushes while reporting is off.
var ErrDisabled = errors.New("remote metrics reporting is disabled")

// PushObserver receives scheduler telemetry.
type PushObserver interface {
	ObserveHealthCheck(err error)
	ObservePush(attempts int, elapsed time.Duration, err error)
	ObserveState(state domain.ConnectionState)
}

type nopObserver struct{}

func (nopObserver) ObserveHealthCheck(error)               {}
func (nopObserver) ObservePush(int, time.Duration, error) {}
func (nopObserver) ObserveState(domain.ConnectionState)   {}

// SchedulerOption customises a Scheduler.
type SchedulerOption func(*Scheduler)

// WithObserver attaches scheduler telemetry.
func WithObserver(o PushObserver) SchedulerOption {
	return func(s *Scheduler) {
		if o != nil {
			s.observer = o
		}
	}
}

// Scheduler periodically pushes the store export to the collector and
// tracks whether the collector is reachable. Failures never leave it.
type Scheduler struct {
	logger   sharedlogger.Logger
	gateway  domain.Gateway
	source   domain.Snapshotter
	observer PushObserver

	mu     sync.Mutex
	cfg    configdomain.CollectorConfig
	state  domain.ConnectionState
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler in the disconnected state
func NewScheduler(logger sharedlogger.Logger, gateway domain.Gateway, source domain.Snapshotter, cfg configdomain.CollectorConfig, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		logger:   logger,
		gateway:  gateway,
		source:   source,
		observer: nopObserver{},
		cfg:      cfg,
		state:    domain.StateDisconnected,
		parent:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start checks collector health and begins the push loop. It returns
// immediately; with reporting disabled it does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = ctx
	s.startLocked()
}

func (s *Scheduler) startLocked() {
	if !s.cfg.Enabled {
		s.logger.Info("Prometheus reporting disabled, collecting metrics locally only")
		return
	}
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(s.parent)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.setStateLocked(domain.StateConnecting)

	cfg := s.cfg
	go func() {
		defer close(done)
		s.run(ctx, cfg)

		// The parent context may have ended the run without Stop
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
		cancel()
	}()
}

// Stop halts the push loop and waits for an in-flight push to return. The
// connection state is left untouched.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Debug("Metrics push stopped")
}

// Running reports whether the push loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// State is the last known collector reachability.
func (s *Scheduler) State() domain.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a copy of the active collector configuration.
func (s *Scheduler) Config() configdomain.CollectorConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// UpdateConfig swaps the collector configuration. A running loop is
// restarted so new endpoints and intervals apply; enabling starts the loop
// and disabling stops it.
func (s *Scheduler) UpdateConfig(ctx context.Context, cfg configdomain.CollectorConfig) error {
	if err := validation.Check(ctx, &cfg, "prometheus"); err != nil {
		return err
	}

	s.mu.Lock()
	running := s.cancel != nil
	s.cfg = cfg
	s.mu.Unlock()

	if running {
		s.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.Enabled {
		s.startLocked()
	}
	s.logger.Info("Prometheus configuration updated", "enabled", cfg.Enabled, "pushgateway", cfg.Pushgateway, "interval", cfg.Interval)
	return nil
}

// PushNow runs one push cycle outside the schedule.
func (s *Scheduler) PushNow(ctx context.Context) error {
	cfg := s.Config()
	if !cfg.Enabled {
		return ErrDisabled
	}
	return s.pushCycle(ctx, cfg)
}

func (s *Scheduler) run(ctx context.Context, cfg configdomain.CollectorConfig) {
	if err := s.checkHealth(ctx, cfg); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("Failed to connect to Prometheus, running in local mode", "endpoint", cfg.ScrapeTarget(), "err", err)
		s.setState(domain.StateDisconnected)
	} else {
		s.logger.Info("Connected to Prometheus", "endpoint", cfg.ScrapeTarget())
		s.setState(domain.StateConnected)
	}

	initial := time.NewTimer(cfg.InitialDelay)
	defer initial.Stop()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-initial.C:
			s.pushCycle(ctx, cfg)
		case <-ticker.C:
			s.pushCycle(ctx, cfg)
		}
	}
}

func (s *Scheduler) checkHealth(ctx context.Context, cfg configdomain.CollectorConfig) error {
	checkCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	err := s.gateway.CheckHealth(checkCtx, cfg.HealthURL())
	s.observer.ObserveHealthCheck(err)
	return err
}

func (s *Scheduler) pushCycle(ctx context.Context, cfg configdomain.CollectorConfig) error {
	body, err := FormatExposition(s.source.GetAll())
	if err != nil {
		s.logger.Error("Failed to serialize metrics for push", "err", err)
		return fmt.Errorf("failed to serialize metrics: %w", err)
	}

	start := time.Now()
	attempts := 0
	for {
		attempts++
		reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		err = s.gateway.Push(reqCtx, cfg.PushURL(), body)
		cancel()

		if err == nil || attempts > cfg.Retries || ctx.Err() != nil {
			break
		}
		s.logger.Debug("Metrics push attempt failed", "attempt", attempts, "err", err)
		if !sleepContext(ctx, cfg.RetryBackoff) {
			break
		}
	}
	s.observer.ObservePush(attempts, time.Since(start), err)

	if err == nil {
		s.setState(domain.StateConnected)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if s.State() != domain.StateDisconnected {
		s.logger.Warn("Failed to push metrics to Prometheus pushgateway", "url", cfg.PushURL(), "attempts", attempts, "err", err)
	} else {
		s.logger.Debug("Prometheus pushgateway still unreachable", "attempts", attempts, "err", err)
	}
	s.setState(domain.StateDisconnected)
	return err
}

func (s *Scheduler) setState(state domain.ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStateLocked(state)
}

func (s *Scheduler) setStateLocked(state domain.ConnectionState) {
	s.state = state
	s.observer.ObserveState(state)
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
