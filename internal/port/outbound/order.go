package outbound

import (
	"context"
	"errors"

	"github.com/cargotrack/server/internal/model"
)

// ErrStateConflict is returned by SetState when the order left the expected state.
var ErrStateConflict = errors.New("order state changed concurrently")

// OrderStorePort defines the interface for order persistence.
type OrderStorePort interface {
	// Create inserts a new order.
	Create(ctx context.Context, order *model.Order) error

	// GetByID returns the order or nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// SetState writes change.To only if the order is still in change.From, and
	// appends the matching history row in the same transaction. It returns the
	// inserted row.
	SetState(ctx context.Context, change *model.StateChange) (*model.StateHistory, error)
}

// StateHistoryPort defines the interface for the order state history ledger.
type StateHistoryPort interface {
	// Append inserts a history row, e.g. the initial state of a new order.
	Append(ctx context.Context, record *model.StateHistory) error

	// Latest returns the most recent history row of an order, or nil.
	Latest(ctx context.Context, orderID int64) (*model.StateHistory, error)

	// UpdateMetadata backfills the caller-supplied metadata of a history row.
	UpdateMetadata(ctx context.Context, id int64, meta model.HistoryMetadata) error

	// List returns history rows most-recent-first.
	List(ctx context.Context, orderID int64, limit int) ([]*model.StateHistory, error)
}
