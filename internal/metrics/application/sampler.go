package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
)

// Ensure SystemSampler implements the domain Service interface
var _ domain.Service = (*SystemSampler)(nil)

// LevelCounter reports how many warnings and errors have been logged.
type LevelCounter interface {
	Warnings() int64
	Errors() int64
}

// SystemSampler records process resources and the health heartbeat on every
// tick.
type SystemSampler struct {
	logger   sharedlogger.Logger
	reader   domain.SystemReader
	reporter *Reporter
	counter  LevelCounter
	interval time.Duration
	started  time.Time
	now      func() time.Time

	loop tickLoop
}

// NewSystemSampler creates a system sampler. counter may be nil.
func NewSystemSampler(logger sharedlogger.Logger, reader domain.SystemReader, reporter *Reporter, counter LevelCounter, interval time.Duration) *SystemSampler {
	return &SystemSampler{
		logger:   logger,
		reader:   reader,
		reporter: reporter,
		counter:  counter,
		interval: interval,
		started:  time.Now(),
		now:      time.Now,
	}
}

func (s *SystemSampler) Start(ctx context.Context) {
	if s.loop.start(ctx, s.interval, func(ctx context.Context) {
		if err := s.Sample(ctx); err != nil {
			s.logger.Debug("System sample incomplete", "err", err)
		}
	}) {
		s.logger.Debug("System sampler started", "interval", s.interval)
	}
}

func (s *SystemSampler) Stop() {
	s.loop.stop()
}

// Sample takes one reading. Readings that fail are reported as zero and
// their errors returned.
func (s *SystemSampler) Sample(ctx context.Context) error {
	var errs []error

	mem, err := s.reader.ReadMemory(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read memory: %w", err))
	}
	cpu, err := s.reader.ReadCPUPercent(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read cpu: %w", err))
	}

	obs := domain.SystemObservation{
		MemoryUsage: float64(mem.ProcessRSS),
		CPUUsage:    cpu,
		Uptime:      s.now().Sub(s.started).Truncate(time.Second).Seconds(),
	}
	if s.counter != nil {
		obs.ErrorCount = float64(s.counter.Errors())
		obs.WarningCount = float64(s.counter.Warnings())
	}

	s.reporter.RecordSystem(obs)
	s.reporter.RecordHealth()

	return errors.Join(errs...)
}
