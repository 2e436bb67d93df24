package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "evaluation:reference:"

// Redis allocates numbers with INCR, which is atomic across every replica
// sharing the instance.
type Redis struct {
	client    redis.Cmdable
	keyPrefix string
}

type RedisOption func(*Redis)

// WithKeyPrefix namespaces the counter keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.keyPrefix = prefix
	}
}

func NewRedis(client redis.Cmdable, opts ...RedisOption) *Redis {
	r := &Redis{client: client, keyPrefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Next(ctx context.Context, scope string) (int64, error) {
	n, err := r.client.Incr(ctx, r.keyPrefix+scope).Result()
	if err != nil {
		return 0, fmt.Errorf("increment reference counter: %w", err)
	}
	return n, nil
}
