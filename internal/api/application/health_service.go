package application

import (
	"context"
	"runtime"
	"time"

	configdomain "holostream/internal/config/domain"
	metricsdomain "holostream/internal/metrics/domain"
)

const (
	maxHeapRatio = 0.9
	minUptime    = 10 * time.Second
)

// HealthInfo is the static part of the health report
type HealthInfo struct {
	Version     string
	Environment string
	DemoMode    bool
	Streaming   configdomain.StreamingConfig
}

// HealthService reports process liveness
type HealthService struct {
	engine  MetricsEngine
	reader  metricsdomain.SystemReader
	info    HealthInfo
	started time.Time
	now     func() time.Time
	heap    func() (used, total uint64)
}

// NewHealthService creates a new health service. reader may be nil.
func NewHealthService(engine MetricsEngine, reader metricsdomain.SystemReader, info HealthInfo, started time.Time) *HealthService {
	return &HealthService{
		engine:  engine,
		reader:  reader,
		info:    info,
		started: started,
		now:     time.Now,
		heap:    readHeap,
	}
}

// Check builds the health report. The process is healthy once it has been
// up for minUptime and uses less than maxHeapRatio of its heap.
func (s *HealthService) Check(ctx context.Context) (HealthResponse, bool) {
	now := s.now()
	uptime := now.Sub(s.started)
	used, total := s.heap()

	var rss uint64
	if s.reader != nil {
		if mem, err := s.reader.ReadMemory(ctx); err == nil {
			rss = mem.ProcessRSS
		}
	}

	healthy := isHealthy(used, total, uptime)
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	cfg := s.engine.Config()
	return HealthResponse{
		Status:      status,
		Timestamp:   now.UTC(),
		Version:     s.info.Version,
		Environment: s.info.Environment,
		Uptime:      uptime.Seconds(),
		Memory: MemoryResponse{
			Used:  used,
			Total: total,
			RSS:   rss,
		},
		Services: ServicesResponse{
			Prometheus: PrometheusServiceResponse{
				Enabled:  cfg.Enabled,
				Status:   s.engine.ConnectionStatus().String(),
				Endpoint: cfg.Endpoint,
			},
		},
		Configuration: ConfigurationResponse{
			DemoMode: s.info.DemoMode,
			Streaming: StreamingResponse{
				Quality: s.info.Streaming.Quality,
				Bitrate: s.info.Streaming.Bitrate,
				FPS:     s.info.Streaming.FPS,
			},
		},
	}, healthy
}

// Healthy is Check without building the body
func (s *HealthService) Healthy() bool {
	used, total := s.heap()
	return isHealthy(used, total, s.now().Sub(s.started))
}

func isHealthy(heapUsed, heapTotal uint64, uptime time.Duration) bool {
	return heapTotal > 0 && float64(heapUsed)/float64(heapTotal) < maxHeapRatio && uptime > minUptime
}

func readHeap() (uint64, uint64) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc, ms.HeapSys
}
