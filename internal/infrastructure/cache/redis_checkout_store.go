package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisCheckoutStore keeps opened gateway orders in Redis so any instance
// can verify a commit against the amount another instance quoted
type RedisCheckoutStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisCheckoutStore creates a store on an existing client.
// keyPrefix defaults to "checkout:".
func NewRedisCheckoutStore(client redis.UniversalClient, keyPrefix string) *RedisCheckoutStore {
	if keyPrefix == "" {
		keyPrefix = "checkout:"
	}
	return &RedisCheckoutStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Record stores the amount as its decimal string
func (s *RedisCheckoutStore) Record(ctx context.Context, gatewayOrderID string, amount decimal.Decimal, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+gatewayOrderID, amount.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to record checkout: %w", err)
	}
	return nil
}

// Amount reads back the recorded amount
func (s *RedisCheckoutStore) Amount(ctx context.Context, gatewayOrderID string) (decimal.Decimal, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+gatewayOrderID).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, shared.ErrNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read checkout: %w", err)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt checkout amount %q: %w", raw, err)
	}
	return amount, nil
}

var _ printing.CheckoutStore = (*RedisCheckoutStore)(nil)
