package scheduler

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker hands out exclusive, expiring leases on job names.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker takes leases with SETNX so one instance runs a job at a time.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	owner := uuid.NewString()
	full := l.prefix + key

	ok, err := l.client.SetNX(ctx, full, owner, ttl).Result()
	if err != nil || !ok {
		return func() {}, false, err
	}

	release := func() {
		_ = releaseScript.Run(context.Background(), l.client, []string{full}, owner).Err()
	}
	return release, true, nil
}

// NoopLocker always grants the lease. It is used when Redis is not wired.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
