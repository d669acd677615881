package salesbudget

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// RedisRuleStore persists discount rule overrides under a single key in Redis.
type RedisRuleStore struct {
	client *redis.Client
	key    string
}

// NewRedisRuleStore creates a store using the given Redis client. An empty
// key falls back to StorageKey.
func NewRedisRuleStore(client *redis.Client, key string) *RedisRuleStore {
	if key == "" {
		key = StorageKey
	}
	return &RedisRuleStore{client: client, key: key}
}

// Load reads the persisted overrides. An absent key is not an error.
func (s *RedisRuleStore) Load(ctx context.Context) ([]RuleOverride, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read rule overrides from redis")
	}

	var overrides []RuleOverride
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal rule overrides")
	}
	return overrides, nil
}

// Save replaces the persisted overrides.
func (s *RedisRuleStore) Save(ctx context.Context, overrides []RuleOverride) error {
	data, err := json.Marshal(overrides)
	if err != nil {
		return errors.Wrap(err, "failed to marshal rule overrides")
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to write rule overrides to redis")
	}
	return nil
}

// Clear removes the persisted overrides.
func (s *RedisRuleStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Wrap(err, "failed to delete rule overrides from redis")
	}
	return nil
}
