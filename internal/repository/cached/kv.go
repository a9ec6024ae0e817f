package cached

import (
	"context"
	"time"
)

// KV - хранилище ключ-значение (реализуется *redis.Client)
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
