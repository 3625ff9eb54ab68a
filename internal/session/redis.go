package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/agentstation/catalogadmin/pkg/constants"
	pkgerrors "github.com/agentstation/catalogadmin/pkg/errors"
)

// RedisStore keeps values in Redis. Every write refreshes the key's TTL,
// so a stored token lives as long as the session is meant to.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects a store with the given options. A zero ttl uses
// the default session lifetime.
func NewRedisStore(opts *redis.Options, ttl time.Duration) *RedisStore {
	return newRedisStore(redis.NewClient(opts), ttl)
}

func newRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	return &RedisStore{
		client: client,
		prefix: constants.AppName + ":session:",
		ttl:    ttl,
	}
}

// Get implements Store. A missing key maps to ErrNoSession.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", pkgerrors.WrapResource("get", "session", key, err)
	}
	return v, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return pkgerrors.WrapResource("set", "session", key, err)
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return pkgerrors.WrapResource("delete", "session", key, err)
	}
	return nil
}

// Name implements Store.
func (r *RedisStore) Name() string { return "redis" }

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
