package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"go.uber.org/zap"
)

// ErrInvalidClient is returned when registration data is incomplete.
var ErrInvalidClient = errors.New("client name is required")

// ClientDomain registers the clients that own orders.
type ClientDomain interface {
	Register(ctx context.Context, name, phone, email string) (*model.Client, error)
}

type clientDomain struct {
	clients outbound.ClientDirectoryPort
	logger  *zap.Logger
	now     func() time.Time
}

// NewClientDomain creates a new client domain service.
func NewClientDomain(clients outbound.ClientDirectoryPort, logger *zap.Logger) ClientDomain {
	return &clientDomain{clients: clients, logger: logger, now: time.Now}
}

// Register creates a client. The phone is stored digits-only, which is the
// form the messaging gateway expects.
func (d *clientDomain) Register(ctx context.Context, name, phone, email string) (*model.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidClient
	}

	now := d.now().UTC()
	c := &model.Client{
		Name:      name,
		Phone:     normalizePhone(phone),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	d.logger.Info("client registered", zap.String("client_id", c.ID.String()))
	return c, nil
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
