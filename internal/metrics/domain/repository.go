package domain

import (
	"context"
	"time"
)

// SampleFilters contains optional filters for querying archived samples
type SampleFilters struct {
	From   *time.Time
	To     *time.Time
	Name   *string
	Kind   *Kind
	Limit  int
	Offset int
}

// Repository defines the interface for snapshot history persistence
type Repository interface {
	InsertSamples(ctx context.Context, samples []Sample) error
	ListSamples(ctx context.Context, filters SampleFilters) ([]Sample, error)
	// DeleteSamplesBefore drops samples older than before and returns how many
	DeleteSamplesBefore(ctx context.Context, before time.Time) (int64, error)
}
