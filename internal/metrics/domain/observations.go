package domain

// StreamingObservation describes the state of the live stream.
type StreamingObservation struct {
	ViewerCount int
	IsLive      bool
	Duration    float64
	Language    string
	Quality     string
}

// PerformanceObservation describes client rendering performance.
type PerformanceObservation struct {
	FPS               float64
	Latency           float64
	ConnectionQuality string
}

// MCPObservation describes traffic to one MCP service since the last report.
type MCPObservation struct {
	RequestCount float64
	ErrorCount   float64
	ResponseTime float64
	IsHealthy    bool
}

// ChatObservation describes chat activity since the last report.
type ChatObservation struct {
	MessagesReceived  float64
	MessagesProcessed float64
	AIResponseTime    float64
	Language          string
}

// AvatarObservation describes the avatar animation pipeline.
type AvatarObservation struct {
	AnimationsFPS        float64
	EmotionChanges       float64
	LipSyncLatency       float64
	MotionCaptureLatency float64
}

// SystemObservation describes host process resources.
type SystemObservation struct {
	MemoryUsage  float64
	CPUUsage     float64
	ErrorCount   float64
	WarningCount float64
	Uptime       float64
}
