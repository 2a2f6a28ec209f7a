package domain

import "context"

// MemoryStats describes memory held by the current process and the host.
type MemoryStats struct {
	ProcessRSS  uint64
	HostTotal   uint64
	HostUsedPct float64
}

// SystemReader defines the interface for reading system metrics
// This interface abstracts OS-level operations from the application layer
type SystemReader interface {
	ReadMemory(ctx context.Context) (MemoryStats, error)
	// ReadCPUPercent returns overall CPU utilisation since the previous call
	ReadCPUPercent(ctx context.Context) (float64, error)
}
