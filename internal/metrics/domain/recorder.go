package domain

// Recorder is the write side of the metric store. Producers only ever see
// this interface.
type Recorder interface {
	SetGauge(name string, value float64, labels map[string]string, help string)
	IncrementCounter(name string, delta float64, labels map[string]string, help string)
	RecordHistogram(name string, value float64, labels map[string]string, help string)
}

// Snapshotter is the read side of the metric store.
type Snapshotter interface {
	GetAll() []Metric
}
