package domain

import "context"

// Gateway talks to the remote metrics collector
// This interface abstracts HTTP concerns from the scheduler
type Gateway interface {
	// CheckHealth queries the collector liveness endpoint at url
	CheckHealth(ctx context.Context, url string) error
	// Push delivers an exposition document to url
	Push(ctx context.Context, url string, body []byte) error
}
