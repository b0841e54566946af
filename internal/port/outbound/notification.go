package outbound

import (
	"context"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/google/uuid"
)

// NotificationStorePort defines the interface for notification persistence.
type NotificationStorePort interface {
	Create(ctx context.Context, n *model.Notification) error

	// ExistsSince reports whether a notification matching key was created at or
	// after since. A zero since matches any creation time.
	ExistsSince(ctx context.Context, key model.DedupKey, since time.Time) (bool, error)

	List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error)

	// MarkRead flags a notification as read. It reports false when no
	// notification has the given id.
	MarkRead(ctx context.Context, id int64, at time.Time) (bool, error)
}

// ClientDirectoryPort resolves client contact details.
type ClientDirectoryPort interface {
	// GetPhone returns the client's phone number, or "" when none is on file.
	GetPhone(ctx context.Context, clientID uuid.UUID) (string, error)
	Create(ctx context.Context, client *model.Client) error
}
