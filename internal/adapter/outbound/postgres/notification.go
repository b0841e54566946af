package postgres

import (
	"context"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"gorm.io/gorm"
)

// notificationAdapter implements outbound.NotificationStorePort.
type notificationAdapter struct {
	db *gorm.DB
}

// NewNotificationAdapter creates a new notification database adapter.
func NewNotificationAdapter(db *gorm.DB) outbound.NotificationStorePort {
	return &notificationAdapter{db: db}
}

func (a *notificationAdapter) Create(ctx context.Context, n *model.Notification) error {
	return a.db.WithContext(ctx).Create(n).Error
}

func (a *notificationAdapter) ExistsSince(ctx context.Context, key model.DedupKey, since time.Time) (bool, error) {
	query := a.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("audience_type = ? AND audience_value = ? AND order_id = ? AND title = ?",
			key.AudienceType, key.AudienceValue, key.OrderID, key.Title)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var ids []int64
	if err := query.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (a *notificationAdapter) List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error) {
	var items []*model.Notification
	query := a.db.WithContext(ctx).
		Where("audience_type = ? AND audience_value = ?", filter.AudienceType, filter.AudienceValue)
	if filter.UnreadOnly {
		query = query.Where("unread = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (a *notificationAdapter) MarkRead(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := a.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"unread":  false,
			"read_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
