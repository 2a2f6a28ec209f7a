package domain

import "context"

// Service is a background component with an explicit lifecycle.
type Service interface {
	Start(ctx context.Context)
	Stop()
}
