package application

import (
	"context"
	"fmt"
	"time"

	"holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
)

// Ensure HistoryRecorder implements the domain Service interface
var _ domain.Service = (*HistoryRecorder)(nil)

// HistoryRecorder archives a snapshot of the store on every tick.
type HistoryRecorder struct {
	logger   sharedlogger.Logger
	source   domain.Snapshotter
	sink     domain.Sink
	interval time.Duration
	now      func() time.Time

	loop tickLoop
}

// NewHistoryRecorder creates a history recorder
func NewHistoryRecorder(logger sharedlogger.Logger, source domain.Snapshotter, sink domain.Sink, interval time.Duration) *HistoryRecorder {
	return &HistoryRecorder{
		logger:   logger,
		source:   source,
		sink:     sink,
		interval: interval,
		now:      time.Now,
	}
}

func (h *HistoryRecorder) Start(ctx context.Context) {
	if h.loop.start(ctx, h.interval, func(ctx context.Context) {
		if err := h.Record(ctx); err != nil {
			h.logger.Warn("Failed to archive metrics snapshot", "err", err)
		}
	}) {
		h.logger.Debug("History recorder started", "interval", h.interval)
	}
}

func (h *HistoryRecorder) Stop() {
	h.loop.stop()
}

// Record archives the current snapshot. An empty store writes nothing.
func (h *HistoryRecorder) Record(ctx context.Context) error {
	samples := domain.SamplesFromSnapshot(h.now(), h.source.GetAll())
	if len(samples) == 0 {
		return nil
	}
	return h.sink.Emit(ctx, samples)
}

// RepositorySink implements the domain Sink interface using the repository.
// Samples older than retention are pruned after every write; zero keeps
// everything.
type RepositorySink struct {
	repo      domain.Repository
	retention time.Duration
	now       func() time.Time
}

// NewRepositorySink creates a new repository sink
func NewRepositorySink(repo domain.Repository, retention time.Duration) *RepositorySink {
	return &RepositorySink{
		repo:      repo,
		retention: retention,
		now:       time.Now,
	}
}

// Emit writes samples to the repository
func (s *RepositorySink) Emit(ctx context.Context, samples []domain.Sample) error {
	if err := s.repo.InsertSamples(ctx, samples); err != nil {
		return fmt.Errorf("failed to insert samples: %w", err)
	}
	if s.retention <= 0 {
		return nil
	}
	if _, err := s.repo.DeleteSamplesBefore(ctx, s.now().Add(-s.retention)); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}
