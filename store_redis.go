package blogclient

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// RedisKeyValue persists session entries in Redis, for deployments where the
// client process is restarted often and the session should survive it
type RedisKeyValue struct {
	client *redis.Client
	prefix string
}

// NewRedisKeyValue wraps an existing redis client. The prefix namespaces the
// session keys so several clients can share one database.
func NewRedisKeyValue(client *redis.Client, prefix string) *RedisKeyValue {
	if prefix == "" {
		prefix = "blogclient:"
	}
	return &RedisKeyValue{client: client, prefix: prefix}
}

func (r *RedisKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read session entry")
	}
	return value, true, nil
}

func (r *RedisKeyValue) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to write session entry")
	}
	return nil
}

func (r *RedisKeyValue) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to delete session entry")
	}
	return nil
}
