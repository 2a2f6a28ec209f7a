package domain

import (
	"errors"
	"time"

	"holostream/pkg/utils"
)

// Kind is the aggregation semantics attached to a metric.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
	KindSummary   Kind = "summary"
)

// ErrNegativeDelta is returned when a counter would decrease.
var ErrNegativeDelta = errors.New("counter delta must not be negative")

// ParseKind maps a wire type tag to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindCounter, KindGauge, KindHistogram, KindSummary:
		return Kind(s), true
	}
	return "", false
}

// Metric is the current observation stored for one (name, labels) series.
type Metric struct {
	Name        string
	Kind        Kind
	Value       float64
	Labels      map[string]string
	Help        string
	LastUpdated time.Time
}

// Key returns the storage identity of the metric.
func (m Metric) Key() string {
	return MetricKey(m.Name, m.Labels)
}

// MetricKey builds the storage identity for a name and label set. Label
// order does not matter.
func MetricKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + utils.CanonicalLabels(labels) + "}"
}
