package limiter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("rate limited")

type Limiter struct {
	limiter *redis_rate.Limiter
}

func NewLimiter(client redis.UniversalClient) (*Limiter, error) {
	if client == nil {
		return nil, errors.New("limiter needs a redis client")
	}
	return &Limiter{redis_rate.NewLimiter(client)}, nil
}

func (l *Limiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	res, err := l.limiter.Allow(ctx, key, limit)
	if err != nil {
		return err
	}
	if res.Allowed == 0 {
		return errors.Wrapf(ErrRateLimited, "retry after %s", res.RetryAfter)
	}
	return nil
}

// Unlimited admits every request. Used when no limiter redis is configured.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string, redis_rate.Limit) error {
	return nil
}
