package notification

import (
	"context"
	"fmt"

	"github.com/cargotrack/server/internal/domain/order"
	"github.com/cargotrack/server/internal/infra/events"
)

// DispatchHandler runs the dispatcher for every applied order transition.
type DispatchHandler struct {
	dispatcher *Dispatcher
}

// NewDispatchHandler wraps d as an event handler.
func NewDispatchHandler(d *Dispatcher) *DispatchHandler {
	return &DispatchHandler{dispatcher: d}
}

func (h *DispatchHandler) Handles() []string {
	return []string{order.EventStateChanged}
}

func (h *DispatchHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*order.StateChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	result := h.dispatcher.Dispatch(ctx, Transition{
		OrderID:       e.OrderID,
		PreviousState: e.PreviousState,
		NewState:      e.State,
		ClientID:      e.ClientID,
	})
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d notifications for order %d failed",
			result.Failed, result.Failed+result.Skipped+len(result.Created), e.OrderID)
	}
	return nil
}
