package domain

import (
	"time"
)

// Sample is one archived observation of a series at a point in time.
type Sample struct {
	Timestamp time.Time
	Kind      Kind
	Name      string
	Value     float64
	Labels    map[string]string
}

// NewSample creates a new sample
func NewSample(timestamp time.Time, kind Kind, name string, value float64, labels map[string]string) Sample {
	return Sample{
		Timestamp: timestamp,
		Kind:      kind,
		Name:      name,
		Value:     value,
		Labels:    labels,
	}
}

// SamplesFromSnapshot stamps every metric of a snapshot with ts.
func SamplesFromSnapshot(ts time.Time, metrics []Metric) []Sample {
	samples := make([]Sample, 0, len(metrics))
	for _, m := range metrics {
		samples = append(samples, NewSample(ts, m.Kind, m.Name, m.Value, m.Labels))
	}
	return samples
}
