package cache

import (
	"context"
	"testing"

	"github.com/printease/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFactory_RedisDisabled(t *testing.T) {
	stores, err := NewStoreFactory(config.RedisConfig{}).CreateStores(context.Background())
	require.NoError(t, err)
	defer stores.Close()

	assert.False(t, stores.Shared())
	assert.IsType(t, &InMemoryRotationStore{}, stores.Rotation)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &InMemoryCheckoutStore{}, stores.Checkout)
}

func TestStoreFactory_UnreachableRedis(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("falls back to memory", func(t *testing.T) {
		stores, err := NewStoreFactory(cfg).CreateStores(context.Background())
		require.NoError(t, err)
		defer stores.Close()
		assert.False(t, stores.Shared())
	})

	t.Run("fails without fallback", func(t *testing.T) {
		_, err := NewStoreFactory(cfg, WithInMemoryFallback(false)).CreateStores(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})
}
