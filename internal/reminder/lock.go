// internal/reminder/lock.go
package reminder

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SweepLocker guards against two sweeps scanning the same day at once.
type SweepLocker interface {
	// Acquire returns true if this instance owns the sweep for the key.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisSweepLock implements SweepLocker with SET NX EX. The TTL bounds how
// long a crashed sweep can block the next one.
type RedisSweepLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSweepLock(client *redis.Client, ttl time.Duration) *RedisSweepLock {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisSweepLock{client: client, ttl: ttl}
}

func (l *RedisSweepLock) Acquire(ctx context.Context, key string) (bool, error) {
	return l.client.SetNX(ctx, key, "1", l.ttl).Result()
}

func (l *RedisSweepLock) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
