package cache

import (
	"context"
	"fmt"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/printease/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the shared state of the order path
type Stores struct {
	Rotation    printing.RotationStore
	Idempotency shared.IdempotencyStore
	Checkout    printing.CheckoutStore
	client      *redis.Client
}

// Close releases the stores and the Redis connection, if any
func (s *Stores) Close() error {
	var firstErr error
	if s.Idempotency != nil {
		firstErr = s.Idempotency.Close()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RedisClient returns the shared Redis connection, or nil for in-memory stores
func (s *Stores) RedisClient() *redis.Client {
	return s.client
}

// Shared reports whether the stores are shared between instances
func (s *Stores) Shared() bool {
	return s.client != nil
}

// StoreFactory creates the rotation and idempotency stores from configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateInMemoryStores creates process-local stores.
// Several instances using them will each keep their own rotation.
func (f *StoreFactory) CreateInMemoryStores() *Stores {
	return &Stores{
		Rotation:    NewInMemoryRotationStore(),
		Idempotency: NewInMemoryIdempotencyStore(),
		Checkout:    NewInMemoryCheckoutStore(),
	}
}

// CreateRedisStores creates stores sharing one Redis client
func (f *StoreFactory) CreateRedisStores(ctx context.Context) (*Stores, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	prefix := f.redisConfig.KeyPrefix
	return &Stores{
		Rotation:    NewRedisRotationStore(client, prefix, f.logger),
		Idempotency: NewRedisIdempotencyStore(client, prefix+"claims:"),
		Checkout:    NewRedisCheckoutStore(client, prefix+"checkout:"),
		client:      client,
	}, nil
}

// CreateStores uses Redis when enabled, falling back to memory if allowed
func (f *StoreFactory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory rotation and payment stores")
		return f.CreateInMemoryStores(), nil
	}

	stores, err := f.CreateRedisStores(ctx)
	if err == nil {
		f.logger.Info("Using Redis rotation and payment stores", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for shared rotation but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Instances will not share printer rotation.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
