package port

import "context"

// EventListenerPort is an incoming adapter that feeds events into the core
// until its context is cancelled.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
