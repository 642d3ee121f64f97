package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bwA4    = printing.CategoryKey{PrintType: printing.PrintTypeBW, PaperSize: printing.PaperSizeA4}
	colorA3 = printing.CategoryKey{PrintType: printing.PrintTypeColor, PaperSize: printing.PaperSizeA3}
)

// rotationStoreContract runs the behaviour every RotationStore must have
func rotationStoreContract(t *testing.T, newStore func(t *testing.T) printing.RotationStore) {
	ctx := context.Background()

	t.Run("starts empty", func(t *testing.T) {
		store := newStore(t)
		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Index(bwA4, 3))
		assert.Empty(t, snap.Keys())
	})

	t.Run("advances when indexes match", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.CompareAndAdvance(ctx, []printing.RotationAdvance{
			{Key: bwA4, Index: 0, Count: 3},
			{Key: colorA3, Index: 0, Count: 2},
		}))

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Index(bwA4, 3))
		assert.Equal(t, 1, snap.Index(colorA3, 2))

		require.NoError(t, store.CompareAndAdvance(ctx, []printing.RotationAdvance{{Key: colorA3, Index: 1, Count: 2}}))
		snap, err = store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Index(colorA3, 2))
	})

	t.Run("conflict changes nothing", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.CompareAndAdvance(ctx, []printing.RotationAdvance{{Key: bwA4, Index: 0, Count: 3}}))

		err := store.CompareAndAdvance(ctx, []printing.RotationAdvance{
			{Key: colorA3, Index: 0, Count: 2},
			{Key: bwA4, Index: 0, Count: 3},
		})
		assert.ErrorIs(t, err, printing.ErrRotationConflict)

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Index(bwA4, 3))
		assert.Equal(t, 0, snap.Counter(colorA3))
	})

	t.Run("snapshot is private", func(t *testing.T) {
		store := newStore(t)
		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		snap.Advance(bwA4, 0, 4)

		again, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Counter(bwA4))
	})

	t.Run("empty advance list is a no-op", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.CompareAndAdvance(ctx, nil))
	})

	t.Run("reset clears counters", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.CompareAndAdvance(ctx, []printing.RotationAdvance{{Key: bwA4, Index: 0, Count: 2}}))
		require.NoError(t, store.Reset(ctx))
		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Counter(bwA4))
	})

	t.Run("concurrent commits from one snapshot: exactly one wins", func(t *testing.T) {
		store := newStore(t)
		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		adv := []printing.RotationAdvance{{Key: bwA4, Index: snap.Index(bwA4, 4), Count: 4}}

		const workers = 16
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if store.CompareAndAdvance(ctx, adv) == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}

func TestInMemoryRotationStore(t *testing.T) {
	rotationStoreContract(t, func(t *testing.T) printing.RotationStore {
		return NewInMemoryRotationStore()
	})
}

// TestRedisRotationStore needs a reachable Redis at REDIS_ADDR
func TestRedisRotationStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	rotationStoreContract(t, func(t *testing.T) printing.RotationStore {
		prefix := "test:" + t.Name() + ":"
		store := NewRedisRotationStore(client, prefix, nil)
		t.Cleanup(func() { _ = store.Reset(context.Background()) })
		return store
	})

	t.Run("skips unparsable fields", func(t *testing.T) {
		ctx := context.Background()
		store := NewRedisRotationStore(client, "test:garbage:", nil)
		t.Cleanup(func() { _ = store.Reset(ctx) })
		require.NoError(t, client.HSet(ctx, "test:garbage:rotation", "bogus", "3", "bw-A4", "2").Err())

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Counter(bwA4))
		assert.Len(t, snap.Keys(), 1)
	})
}

func TestRedisIdempotencyStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisIdempotencyStore(client, "test:claims:")
	t.Cleanup(func() { _ = store.Release(ctx, "pay_1") })

	isNew, err := store.MarkProcessed(ctx, "pay_1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "pay_1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	require.NoError(t, store.Release(ctx, "pay_1"))
	processed, err := store.IsProcessed(ctx, "pay_1")
	require.NoError(t, err)
	assert.False(t, processed)
}
