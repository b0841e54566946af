package order

import (
	"strconv"
	"time"

	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/model"
	"github.com/google/uuid"
)

// EventStateChanged is published after a state write lands.
const EventStateChanged = "OrderStateChanged"

// StateChangedEvent describes an applied order transition.
type StateChangedEvent struct {
	events.BaseEvent
	OrderID         int64       `json:"order_id"`
	ClientID        uuid.UUID   `json:"client_id"`
	ProductName     string      `json:"product_name,omitempty"`
	PreviousState   model.State `json:"previous_state"`
	State           model.State `json:"state"`
	MaxStateReached model.State `json:"max_state_reached"`
	HistoryID       *int64      `json:"history_id,omitempty"`
}

// NewStateChangedEvent builds the event for an applied transition of o.
func NewStateChangedEvent(o *model.Order, previous model.State, historyID *int64, at time.Time) *StateChangedEvent {
	return &StateChangedEvent{
		BaseEvent:       events.NewBaseEvent(EventStateChanged, strconv.FormatInt(o.ID, 10), "Order", at),
		OrderID:         o.ID,
		ClientID:        o.ClientID,
		ProductName:     o.ProductName,
		PreviousState:   previous,
		State:           o.State,
		MaxStateReached: o.MaxStateReached,
		HistoryID:       historyID,
	}
}
