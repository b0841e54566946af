package client

import (
	"context"
	"errors"
	"testing"

	"github.com/cargotrack/server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockClientDirectory struct {
	mock.Mock
}

func (m *MockClientDirectory) GetPhone(ctx context.Context, clientID uuid.UUID) (string, error) {
	args := m.Called(ctx, clientID)
	return args.String(0), args.Error(1)
}

func (m *MockClientDirectory) Create(ctx context.Context, c *model.Client) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = uuid.New()
	}
	return args.Error(0)
}

func TestClientDomain_Register(t *testing.T) {
	t.Run("normalizes contact data", func(t *testing.T) {
		clients := new(MockClientDirectory)
		d := NewClientDomain(clients, zap.NewNop())

		clients.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Client) bool {
			return c.Name == "María Pérez" && c.Phone == "584141234567" && c.Email == "maria@example.com"
		})).Return(nil)

		c, err := d.Register(context.Background(), "  María Pérez ", "+58 414-123-4567", "Maria@Example.com")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
		clients.AssertExpectations(t)
	})

	t.Run("requires name", func(t *testing.T) {
		clients := new(MockClientDirectory)
		d := NewClientDomain(clients, zap.NewNop())

		_, err := d.Register(context.Background(), "  ", "", "")

		assert.ErrorIs(t, err, ErrInvalidClient)
		clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		clients := new(MockClientDirectory)
		d := NewClientDomain(clients, zap.NewNop())
		clients.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate"))

		_, err := d.Register(context.Background(), "Ana", "", "")
		assert.Error(t, err)
	})
}
