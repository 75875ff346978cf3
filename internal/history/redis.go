package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list key used when none is configured.
const DefaultRedisKey = "labgen:history"

// ListClient is the subset of *redis.Client the Redis archive needs.
type ListClient interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisArchive stores JSON-encoded records in a capped Redis list.
type RedisArchive struct {
	client ListClient
	key    string
}

// NewRedisArchive returns an archive on client under key.
func NewRedisArchive(client ListClient, key string) *RedisArchive {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisArchive{client: client, key: key}
}

func (a *RedisArchive) Append(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	if err := a.client.LPush(ctx, a.key, data).Err(); err != nil {
		return fmt.Errorf("push history record: %w", err)
	}
	if err := a.client.LTrim(ctx, a.key, 0, Capacity-1).Err(); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

func (a *RedisArchive) List(ctx context.Context, limit int) ([]Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := a.client.LRange(ctx, a.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode history record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (a *RedisArchive) Clear(ctx context.Context) error {
	if err := a.client.Del(ctx, a.key).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
