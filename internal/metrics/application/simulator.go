package application

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"holostream/internal/metrics/domain"
	sharedlogger "holostream/internal/shared/logger"
)

// Ensure DemoSimulator implements the domain Service interface
var _ domain.Service = (*DemoSimulator)(nil)

// DemoServices are the MCP services mocked in demo mode.
var DemoServices = []string{"piapi", "screenpipe", "mem0", "lara"}

var (
	demoLanguages = []string{"en", "ja", "zh"}
	demoQualities = []string{"excellent", "good", "good", "poor"}
)

// DemoSimulator stands in for the browser-side avatar, chat and streaming
// producers when there is no real client. Output is reproducible for a
// given seed.
type DemoSimulator struct {
	logger   sharedlogger.Logger
	reporter *Reporter
	interval time.Duration
	quality  string

	mu      sync.Mutex
	rng     *rand.Rand
	started time.Time
	viewers int

	loop tickLoop
}

// NewDemoSimulator creates a simulator reporting stream quality as quality
func NewDemoSimulator(logger sharedlogger.Logger, reporter *Reporter, interval time.Duration, quality string, seed int64) *DemoSimulator {
	return &DemoSimulator{
		logger:   logger,
		reporter: reporter,
		interval: interval,
		quality:  quality,
		rng:      rand.New(rand.NewSource(seed)),
		viewers:  100,
	}
}

func (d *DemoSimulator) Start(ctx context.Context) {
	d.mu.Lock()
	d.started = time.Now()
	d.mu.Unlock()

	if d.loop.start(ctx, d.interval, func(context.Context) { d.Tick(time.Now()) }) {
		d.logger.Info("Demo simulator started", "interval", d.interval)
	}
}

func (d *DemoSimulator) Stop() {
	d.loop.stop()
}

// Tick produces one round of observations for every producer.
func (d *DemoSimulator) Tick(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started.IsZero() {
		d.started = now
	}

	d.viewers += d.rng.Intn(21) - 10
	if d.viewers < 0 {
		d.viewers = 0
	}
	language := demoLanguages[d.rng.Intn(len(demoLanguages))]

	d.reporter.RecordStreaming(domain.StreamingObservation{
		ViewerCount: d.viewers,
		IsLive:      true,
		Duration:    math.Floor(now.Sub(d.started).Seconds()),
		Language:    language,
		Quality:     d.quality,
	})

	d.reporter.RecordPerformance(domain.PerformanceObservation{
		FPS:               55 + d.rng.Float64()*5,
		Latency:           20 + d.rng.Float64()*80,
		ConnectionQuality: demoQualities[d.rng.Intn(len(demoQualities))],
	})

	received := float64(d.rng.Intn(5))
	d.reporter.RecordChat(domain.ChatObservation{
		MessagesReceived:  received,
		MessagesProcessed: math.Min(received, float64(d.rng.Intn(5))),
		AIResponseTime:    200 + d.rng.Float64()*800,
		Language:          language,
	})

	d.reporter.RecordAvatar(domain.AvatarObservation{
		AnimationsFPS:        58 + d.rng.Float64()*2,
		EmotionChanges:       float64(d.rng.Intn(2)),
		LipSyncLatency:       30 + d.rng.Float64()*20,
		MotionCaptureLatency: 15 + d.rng.Float64()*10,
	})

	for _, service := range DemoServices {
		requests := float64(1 + d.rng.Intn(3))
		failures := 0.0
		if d.rng.Float64() < 0.05 {
			failures = 1
		}
		d.reporter.RecordMCP(service, domain.MCPObservation{
			RequestCount: requests,
			ErrorCount:   failures,
			ResponseTime: 50 + d.rng.Float64()*150,
			IsHealthy:    failures == 0,
		})
	}
}
