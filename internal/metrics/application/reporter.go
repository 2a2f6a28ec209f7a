package application

import (
	"time"

	"holostream/internal/metrics/domain"
)

// Reporter translates producer observations into store writes. It is the
// only path the performance, streaming, chat, avatar, MCP and system
// producers have into the engine.
type Reporter struct {
	rec      domain.Recorder
	instance string
	version  string
}

// NewReporter creates a reporter tagging lifecycle series with instance and
// version
func NewReporter(rec domain.Recorder, instance, version string) *Reporter {
	return &Reporter{
		rec:      rec,
		instance: instance,
		version:  version,
	}
}

func (r *Reporter) RecordStreaming(o domain.StreamingObservation) {
	r.rec.SetGauge("holo_bot_viewers_current", float64(o.ViewerCount), map[string]string{
		"language": o.Language,
		"quality":  o.Quality,
	}, "Current number of stream viewers")
	r.rec.SetGauge("holo_bot_stream_duration_seconds", o.Duration, map[string]string{
		"language": o.Language,
	}, "Duration of the current stream")
	r.rec.SetGauge("holo_bot_stream_active", boolValue(o.IsLive), map[string]string{
		"language": o.Language,
	}, "Whether the stream is live")
}

func (r *Reporter) RecordPerformance(o domain.PerformanceObservation) {
	r.rec.SetGauge("holo_bot_fps", o.FPS, nil, "Rendered frames per second")
	r.rec.SetGauge("holo_bot_latency_ms", o.Latency, nil, "Round trip latency in milliseconds")
	r.rec.SetGauge("holo_bot_connection_quality_score", QualityScore(o.ConnectionQuality), nil, "Connection quality from 0 (unknown) to 4 (excellent)")
}

func (r *Reporter) RecordMCP(service string, o domain.MCPObservation) {
	labels := map[string]string{"service": service}
	r.rec.IncrementCounter("holo_bot_mcp_requests_total", o.RequestCount, labels, "Requests sent to MCP services")
	r.rec.IncrementCounter("holo_bot_mcp_errors_total", o.ErrorCount, labels, "Failed MCP requests")
	r.rec.RecordHistogram("holo_bot_mcp_response_time_ms", o.ResponseTime, labels, "MCP response time in milliseconds")
	r.rec.SetGauge("holo_bot_mcp_health", boolValue(o.IsHealthy), labels, "Whether the MCP service is healthy")
}

func (r *Reporter) RecordChat(o domain.ChatObservation) {
	labels := map[string]string{"language": o.Language}
	r.rec.IncrementCounter("holo_bot_chat_messages_received_total", o.MessagesReceived, labels, "Chat messages received")
	r.rec.IncrementCounter("holo_bot_chat_messages_processed_total", o.MessagesProcessed, labels, "Chat messages answered")
	r.rec.RecordHistogram("holo_bot_ai_response_time_ms", o.AIResponseTime, labels, "AI response time in milliseconds")
}

func (r *Reporter) RecordAvatar(o domain.AvatarObservation) {
	r.rec.SetGauge("holo_bot_avatar_animations_fps", o.AnimationsFPS, nil, "Avatar animation frames per second")
	r.rec.IncrementCounter("holo_bot_avatar_emotion_changes_total", o.EmotionChanges, nil, "Avatar emotion transitions")
	r.rec.SetGauge("holo_bot_avatar_lip_sync_latency_ms", o.LipSyncLatency, nil, "Lip sync latency in milliseconds")
	r.rec.SetGauge("holo_bot_avatar_motion_capture_latency_ms", o.MotionCaptureLatency, nil, "Motion capture latency in milliseconds")
}

func (r *Reporter) RecordSystem(o domain.SystemObservation) {
	r.rec.SetGauge("holo_bot_memory_usage_bytes", o.MemoryUsage, nil, "Resident memory of the process")
	r.rec.SetGauge("holo_bot_cpu_usage_percent", o.CPUUsage, nil, "Host CPU utilisation")
	r.rec.SetGauge("holo_bot_errors_total", o.ErrorCount, nil, "Errors logged since start")
	r.rec.SetGauge("holo_bot_warnings_total", o.WarningCount, nil, "Warnings logged since start")
	r.rec.SetGauge("holo_bot_uptime_seconds", o.Uptime, nil, "Seconds since start")
}

// RecordHealth marks the instance as alive.
func (r *Reporter) RecordHealth() {
	r.rec.SetGauge("holo_bot_health", 1, map[string]string{
		"instance": r.instance,
		"version":  r.version,
	}, "")
}

// RecordStartup counts a process start and stamps its time in unix
// milliseconds.
func (r *Reporter) RecordStartup(at time.Time) {
	labels := map[string]string{"instance": r.instance}
	r.rec.IncrementCounter("holo_bot_startup_total", 1, labels, "")
	r.rec.SetGauge("holo_bot_startup_timestamp", float64(at.UnixMilli()), labels, "")
}

// QualityScore maps a connection quality label to a number.
func QualityScore(quality string) float64 {
	switch quality {
	case "excellent":
		return 4
	case "good":
		return 3
	case "poor":
		return 2
	case "disconnected":
		return 1
	default:
		return 0
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
