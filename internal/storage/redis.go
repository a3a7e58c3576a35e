package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisSlot 将槽保存为 Redis 中的一个字符串键
// RedisSlot keeps the slot as a single string key on a Redis server.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot connects to Redis and verifies the connection with PING.
func NewRedisSlot(ctx context.Context, opts *redis.Options, key string) (*RedisSlot, error) {
	if opts == nil || strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &RedisSlot{client: client, key: key}, nil
}

func (r *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.key, err)
	}
	return data, nil
}

func (r *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisSlot) Close() error {
	return r.client.Close()
}
