package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// compareAndAdvanceScript checks every (field, index, count) triple against
// the stored counters and only then writes the new counters.
// Returns 1 on success and 0 on conflict.
var compareAndAdvanceScript = redis.NewScript(`
local n = #ARGV / 3
for i = 0, n - 1 do
  local field = ARGV[i * 3 + 1]
  local index = tonumber(ARGV[i * 3 + 2])
  local count = tonumber(ARGV[i * 3 + 3])
  local cur = tonumber(redis.call('HGET', KEYS[1], field) or '0')
  if count > 0 and (cur % count) ~= index then
    return 0
  end
end
for i = 0, n - 1 do
  local field = ARGV[i * 3 + 1]
  local index = tonumber(ARGV[i * 3 + 2])
  local count = tonumber(ARGV[i * 3 + 3])
  if count > 0 then
    redis.call('HSET', KEYS[1], field, (index + 1) % count)
  end
end
return 1
`)

// RedisRotationStore shares the rotation between service instances as one
// Redis hash of category -> next index
type RedisRotationStore struct {
	client redis.UniversalClient
	key    string
	logger *zap.Logger
}

// NewRedisRotationStore creates a store on an existing client.
// The hash lives at keyPrefix + "rotation".
func NewRedisRotationStore(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) *RedisRotationStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRotationStore{
		client: client,
		key:    keyPrefix + "rotation",
		logger: logger,
	}
}

// Snapshot reads the whole hash. Fields that do not parse are skipped.
func (s *RedisRotationStore) Snapshot(ctx context.Context) (printing.RotationState, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return printing.RotationState{}, fmt.Errorf("failed to read rotation: %w", err)
	}
	counters := make(map[printing.CategoryKey]int, len(raw))
	for field, value := range raw {
		key, err := printing.ParseCategoryKey(field)
		if err != nil {
			s.logger.Warn("Skipping unknown rotation field", zap.String("field", field))
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			s.logger.Warn("Skipping invalid rotation counter",
				zap.String("field", field),
				zap.String("value", value),
			)
			continue
		}
		counters[key] = n
	}
	return printing.RotationStateFrom(counters), nil
}

// CompareAndAdvance runs the check and the update in one Lua script
func (s *RedisRotationStore) CompareAndAdvance(ctx context.Context, advances []printing.RotationAdvance) error {
	if len(advances) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(advances)*3)
	for _, a := range advances {
		args = append(args, a.Key.String(), a.Index, a.Count)
	}
	ok, err := compareAndAdvanceScript.Run(ctx, s.client, []string{s.key}, args...).Int()
	if err != nil {
		return fmt.Errorf("failed to advance rotation: %w", err)
	}
	if ok != 1 {
		return printing.ErrRotationConflict
	}
	return nil
}

// Reset deletes the hash
func (s *RedisRotationStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to reset rotation: %w", err)
	}
	return nil
}

var _ printing.RotationStore = (*RedisRotationStore)(nil)
