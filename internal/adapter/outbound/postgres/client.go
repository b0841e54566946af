package postgres

import (
	"context"
	"errors"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clientAdapter implements outbound.ClientDirectoryPort.
type clientAdapter struct {
	db *gorm.DB
}

// NewClientAdapter creates a new client directory adapter.
func NewClientAdapter(db *gorm.DB) outbound.ClientDirectoryPort {
	return &clientAdapter{db: db}
}

func (a *clientAdapter) GetPhone(ctx context.Context, clientID uuid.UUID) (string, error) {
	var client model.Client
	err := a.db.WithContext(ctx).
		Select("id", "phone").
		First(&client, "id = ?", clientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return client.Phone, nil
}

func (a *clientAdapter) Create(ctx context.Context, client *model.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	return a.db.WithContext(ctx).Create(client).Error
}
