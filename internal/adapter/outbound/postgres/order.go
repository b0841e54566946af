package postgres

import (
	"context"
	"errors"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"gorm.io/gorm"
)

// orderAdapter implements outbound.OrderStorePort.
type orderAdapter struct {
	db *gorm.DB
}

// NewOrderAdapter creates a new order database adapter.
func NewOrderAdapter(db *gorm.DB) outbound.OrderStorePort {
	return &orderAdapter{db: db}
}

func (a *orderAdapter) Create(ctx context.Context, order *model.Order) error {
	return a.db.WithContext(ctx).Create(order).Error
}

func (a *orderAdapter) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := a.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// SetState updates the order only while it is still in change.From and
// records the new state in order_state_history within the same transaction.
func (a *orderAdapter) SetState(ctx context.Context, change *model.StateChange) (*model.StateHistory, error) {
	record := &model.StateHistory{
		OrderID:   change.OrderID,
		State:     change.To,
		Timestamp: change.At,
	}
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ? AND state = ?", change.OrderID, change.From).
			Updates(map[string]any{
				"state":             change.To,
				"max_state_reached": change.MaxStateReached,
				"updated_at":        change.At,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return outbound.ErrStateConflict
		}

		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}
