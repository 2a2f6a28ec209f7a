package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"holostream/internal/metrics/domain"
)

// Ensure SystemReader implements the domain SystemReader interface
var _ domain.SystemReader = (*SystemReader)(nil)

// SystemReader reads process and host resources through gopsutil
type SystemReader struct {
	pid int32

	mu      sync.Mutex
	proc    *process.Process
	prevCPU *cpu.TimesStat
}

// NewSystemReader creates a reader for the current process
func NewSystemReader() *SystemReader {
	return &SystemReader{pid: int32(os.Getpid())}
}

// ReadMemory returns the resident set size of the process and host usage
func (r *SystemReader) ReadMemory(ctx context.Context) (domain.MemoryStats, error) {
	var stats domain.MemoryStats
	var errs []error

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read virtual memory: %w", err))
	} else {
		stats.HostTotal = vm.Total
		stats.HostUsedPct = vm.UsedPercent
	}

	proc, err := r.process(ctx)
	if err == nil {
		var info *process.MemoryInfoStat
		info, err = proc.MemoryInfoWithContext(ctx)
		if err == nil {
			stats.ProcessRSS = info.RSS
		}
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read process memory: %w", err))
	}

	return stats, errors.Join(errs...)
}

// ReadCPUPercent returns total host CPU busy time since the previous call.
// The first call has no baseline and reports zero.
func (r *SystemReader) ReadCPUPercent(ctx context.Context) (float64, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu times: %w", err)
	}
	if len(times) == 0 {
		return 0, errors.New("no cpu times reported")
	}
	cur := times[0]

	r.mu.Lock()
	prev := r.prevCPU
	r.prevCPU = &cur
	r.mu.Unlock()

	if prev == nil {
		return 0, nil
	}

	dIdle := cur.Idle - prev.Idle
	dTotal := busy(cur) + cur.Idle - busy(*prev) - prev.Idle
	if dTotal <= 0 {
		return 0, nil
	}
	return (dTotal - dIdle) / dTotal * 100, nil
}

func (r *SystemReader) process(ctx context.Context) (*process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.proc != nil {
		return r.proc, nil
	}
	proc, err := process.NewProcessWithContext(ctx, r.pid)
	if err != nil {
		return nil, err
	}
	r.proc = proc
	return proc, nil
}

func busy(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Iowait + t.Steal + t.Nice + t.Irq + t.Softirq
}
