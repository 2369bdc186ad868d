package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// RedisLock holds the run lock in Redis so runs on different hosts sharing
// one store exclude each other.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	owner  string
}

func NewRedisLock(client *redis.Client, key string, ttl time.Duration, owner string) *RedisLock {
	return &RedisLock{client: client, key: key, ttl: ttl, owner: owner}
}

func (l *RedisLock) Lock(ctx context.Context) (func() error, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SETNX %s: %w", l.key, err)
	}
	if !ok {
		holder, _ := l.client.Get(ctx, l.key).Result()
		return nil, fmt.Errorf("%w: %s", ErrLocked, holder)
	}
	return func() error {
		// fresh context so release still happens after the run context is cancelled
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return releaseScript.Run(rctx, l.client, []string{l.key}, l.owner).Err()
	}, nil
}
