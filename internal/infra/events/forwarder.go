package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cargotrack/server/internal/port/outbound"
)

// NewForwarder creates a handler that relays eventTypes to publisher as JSON,
// keyed by aggregate id so that events of one aggregate stay ordered.
func NewForwarder(publisher outbound.MessagePort, eventTypes ...string) *HandlerFunc {
	return NewHandlerFunc(eventTypes, func(ctx context.Context, event Event) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", event.EventType(), err)
		}
		if err := publisher.Publish(ctx, event.AggregateID(), payload); err != nil {
			return fmt.Errorf("forward %s: %w", event.EventType(), err)
		}
		return nil
	})
}
