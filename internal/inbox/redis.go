package inbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yukikurage/task-tracker/internal/constants"
)

const defaultRedisKey = "task_tracker:inbox"

// RedisStore keeps notifications in a Redis list trimmed to capacity.
// LPUSH keeps the newest entry at the head, so LRANGE reads newest first.
type RedisStore struct {
	client   redis.UniversalClient
	key      string
	capacity int64
}

func NewRedisStore(client redis.UniversalClient, capacity int) *RedisStore {
	if capacity <= 0 {
		capacity = constants.DefaultInboxCapacity
	}
	return &RedisStore{
		client:   client,
		key:      defaultRedisKey,
		capacity: int64(capacity),
	}
}

func (s *RedisStore) Append(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, data)
	pipe.LTrim(ctx, s.key, 0, s.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]Notification, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := s.client.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]Notification, 0, len(raw))
	for _, item := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

func (s *RedisStore) Capacity() int {
	return int(s.capacity)
}
