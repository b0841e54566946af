package outbound

import (
	"context"

	"github.com/cargotrack/server/internal/model"
)

// StateMessage is a client-facing status update sent over the messaging channel.
type StateMessage struct {
	Phone       string
	OrderID     int64
	State       model.State
	ProductName string
}

// MessagingBridgePort sends templated state updates to an external messaging API.
type MessagingBridgePort interface {
	SendStateUpdate(ctx context.Context, msg StateMessage) error
}

// MessagePort defines message queue operations.
type MessagePort interface {
	// Publish publishes a message to a topic under the given key.
	Publish(ctx context.Context, key string, message []byte) error

	Close() error
}
