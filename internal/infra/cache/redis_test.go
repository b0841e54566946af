package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/cargotrack/server/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("disabled without address", func(t *testing.T) {
		client, err := NewRedisClient(config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
		assert.NoError(t, Close(client))
	})

	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
		require.NoError(t, err)
		require.NotNil(t, client)
		assert.NoError(t, Close(client))
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := NewRedisClient(config.RedisConfig{Address: "127.0.0.1:1"})
		assert.Error(t, err)
	})
}
