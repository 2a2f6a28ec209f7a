package domain

import "context"

// Sink defines the interface for archiving store snapshots
type Sink interface {
	Emit(ctx context.Context, samples []Sample) error
}
