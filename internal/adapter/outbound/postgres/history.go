package postgres

import (
	"context"
	"errors"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"gorm.io/gorm"
)

// historyAdapter implements outbound.StateHistoryPort.
type historyAdapter struct {
	db *gorm.DB
}

// NewHistoryAdapter creates a new order state history adapter.
func NewHistoryAdapter(db *gorm.DB) outbound.StateHistoryPort {
	return &historyAdapter{db: db}
}

func (a *historyAdapter) Append(ctx context.Context, record *model.StateHistory) error {
	return a.db.WithContext(ctx).Create(record).Error
}

func (a *historyAdapter) Latest(ctx context.Context, orderID int64) (*model.StateHistory, error) {
	return a.first(a.db.WithContext(ctx).Where("order_id = ?", orderID))
}

func (a *historyAdapter) UpdateMetadata(ctx context.Context, id int64, meta model.HistoryMetadata) error {
	updates := make(map[string]any, 4)
	if meta.ChangedBy != nil {
		updates["changed_by"] = *meta.ChangedBy
	}
	if meta.Notes != nil {
		updates["notes"] = *meta.Notes
	}
	if meta.IPAddress != nil {
		updates["ip_address"] = *meta.IPAddress
	}
	if meta.UserAgent != nil {
		updates["user_agent"] = *meta.UserAgent
	}
	if len(updates) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).
		Model(&model.StateHistory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (a *historyAdapter) List(ctx context.Context, orderID int64, limit int) ([]*model.StateHistory, error) {
	var records []*model.StateHistory
	query := a.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order(`"timestamp" DESC, id DESC`)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (a *historyAdapter) first(query *gorm.DB) (*model.StateHistory, error) {
	var record model.StateHistory
	err := query.Order(`"timestamp" DESC, id DESC`).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
