package event

import (
	"context"

	"github.com/marcelsud/salessuite-connector/trigger"
)

// Reader provides read operations for recorded events
type Reader interface {
	Get(ctx context.Context, id string) (Event, error)
}

// Writer records events
type Writer interface {
	/* Store adds an event to its node's stream
	 * Returns the event ID and any error
	 */
	Store(ctx context.Context, ev Event) (string, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// StreamConsumer reads events of a node in arrival order
type StreamConsumer interface {
	/* Consume blocks briefly until events are available
	 * Returned events stay pending until acknowledged
	 */
	Consume(ctx context.Context, nodeID string, mode trigger.Mode) ([]Event, error)
	Acknowledge(ctx context.Context, nodeID string, mode trigger.Mode, eventID string) error
}

type Repository interface {
	Reader
	Writer
	StreamConsumer
	Close(ctx context.Context) error
}
