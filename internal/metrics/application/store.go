package application

import (
	"fmt"
	"sync"
	"time"

	"holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
	"holostream/pkg/utils"
)

// Ensure Store implements the domain ports
var (
	_ domain.Recorder    = (*Store)(nil)
	_ domain.Snapshotter = (*Store)(nil)
)

// Store holds the current value of every (name, labels) series.
type Store struct {
	logger sharedlogger.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*domain.Metric
	// Keys in first-write order
	order []string
}

// NewStore creates an empty metric store
func NewStore(logger sharedlogger.Logger) *Store {
	return &Store{
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*domain.Metric),
	}
}

// SetGauge replaces the stored value for the series. Writes whose name or
// label keys cannot be exported are dropped and logged.
func (s *Store) SetGauge(name string, value float64, labels map[string]string, help string) {
	if err := s.setGauge(name, value, labels, help); err != nil {
		s.logger.Warn("Dropped gauge write", "name", name, "err", err)
	}
}

func (s *Store) setGauge(name string, value float64, labels map[string]string, help string) error {
	return s.write(domain.KindGauge, name, labels, help, func(float64, bool) float64 {
		return value
	})
}

// IncrementCounter adds delta to the series, starting from zero when it does
// not exist yet. Negative deltas are dropped and logged.
func (s *Store) IncrementCounter(name string, delta float64, labels map[string]string, help string) {
	if err := s.AddCounter(name, delta, labels, help); err != nil {
		s.logger.Warn("Dropped counter write", "name", name, "delta", delta, "err", err)
	}
}

// AddCounter is IncrementCounter with the rejection reported to the caller:
// ErrNegativeDelta, or an invalid name or label key.
func (s *Store) AddCounter(name string, delta float64, labels map[string]string, help string) error {
	if delta < 0 {
		return fmt.Errorf("%s: %w", name, domain.ErrNegativeDelta)
	}
	return s.write(domain.KindCounter, name, labels, help, func(old float64, exists bool) float64 {
		if exists {
			return old + delta
		}
		return delta
	})
}

// RecordHistogram stores the observation as a gauge named <name>_duration.
// There is no bucketing.
func (s *Store) RecordHistogram(name string, value float64, labels map[string]string, help string) {
	s.SetGauge(name+"_duration", value, labels, help)
}

// Apply dispatches a metric through the write operation matching its kind.
// Histogram and summary observations are flattened to gauges.
func (s *Store) Apply(m domain.Metric) error {
	switch m.Kind {
	case domain.KindCounter:
		return s.AddCounter(m.Name, m.Value, m.Labels, m.Help)
	case domain.KindGauge, domain.KindHistogram, domain.KindSummary:
		return s.setGauge(m.Name, m.Value, m.Labels, m.Help)
	default:
		return fmt.Errorf("unknown metric kind %q", m.Kind)
	}
}

func (s *Store) write(kind domain.Kind, name string, labels map[string]string, help string, next func(old float64, exists bool) float64) error {
	if err := utils.CheckName(name); err != nil {
		return err
	}
	if err := utils.CheckLabels(labels); err != nil {
		return err
	}

	key := domain.MetricKey(name, labels)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		s.entries[key] = &domain.Metric{
			Name:        name,
			Kind:        kind,
			Value:       next(0, false),
			Labels:      utils.CloneLabels(labels),
			Help:        help,
			LastUpdated: now,
		}
		s.order = append(s.order, key)
		return nil
	}

	entry.Value = next(entry.Value, true)
	entry.Kind = kind
	entry.LastUpdated = now
	if help != "" {
		entry.Help = help
	}
	return nil
}

// GetAll returns a copy of every series in first-write order.
func (s *Store) GetAll() []domain.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Metric, 0, len(s.order))
	for _, key := range s.order {
		m := *s.entries[key]
		m.Labels = utils.CloneLabels(m.Labels)
		out = append(out, m)
	}
	return out
}

// Get returns a copy of one series.
func (s *Store) Get(name string, labels map[string]string) (domain.Metric, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[domain.MetricKey(name, labels)]
	if !ok {
		return domain.Metric{}, false
	}
	m := *entry
	m.Labels = utils.CloneLabels(m.Labels)
	return m, true
}

// Len is the number of series held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Clear drops every series.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*domain.Metric)
	s.order = nil
}
