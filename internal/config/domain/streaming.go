package domain

import "context"

// StreamingConfig holds the outgoing stream settings reported by the health
// endpoint.
type StreamingConfig struct {
	Quality string `yaml:"quality"`
	Bitrate int    `yaml:"bitrate"`
	FPS     int    `yaml:"fps"`
}

func DefaultStreamingConfig() StreamingConfig {
	return StreamingConfig{
		Quality: "1080p",
		Bitrate: 4000,
		FPS:     30,
	}
}

func (c *StreamingConfig) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string)
	if c.Quality == "" {
		problems["quality"] = "'quality' is required"
	}
	if c.Bitrate <= 0 {
		problems["bitrate"] = "bitrate should be more than zero"
	}
	if c.FPS <= 0 {
		problems["fps"] = "fps should be more than zero"
	}
	return problems
}
