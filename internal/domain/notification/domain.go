package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// NotificationDomain defines the read side of notification queues.
type NotificationDomain interface {
	List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type notificationDomain struct {
	store  outbound.NotificationStorePort
	logger *zap.Logger
	now    func() time.Time
}

// NewNotificationDomain creates a new notification domain service.
func NewNotificationDomain(store outbound.NotificationStorePort, logger *zap.Logger) NotificationDomain {
	return &notificationDomain{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (d *notificationDomain) List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error) {
	if !filter.AudienceType.IsValid() || filter.AudienceValue == "" {
		return nil, ErrInvalidAudience
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	items, err := d.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (d *notificationDomain) MarkRead(ctx context.Context, id int64) error {
	found, err := d.store.MarkRead(ctx, id, d.now().UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !found {
		return ErrNotificationNotFound
	}

	d.logger.Info("notification marked read", zap.Int64("notification_id", id))
	return nil
}
