// Package ratelimit throttles repeated login attempts per account.
package ratelimit

import (
	"context"
	"strings"
	"time"

	"letsshare/internal/domain/service"
	"letsshare/internal/errors"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "letsshare:login"

// redisLimiter counts attempts in a fixed window that starts with the first
// attempt. Counters are shared by every instance behind the same Redis.
type redisLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewRedisLimiter returns a LoginAttemptLimiter backed by client.
func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) service.LoginAttemptLimiter {
	return &redisLimiter{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func redisKey(key string) string {
	return keyPrefix + ":" + strings.ToLower(strings.TrimSpace(key))
}

// Allow fails open: on a Redis error the attempt is allowed and the error returned.
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := redisKey(key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, errors.Wrap(err, "redis incr")
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, errors.Wrap(err, "redis expire")
		}
	}

	return count <= l.maxAttempts, nil
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return errors.WithStack(l.client.Del(ctx, redisKey(key)).Err())
}

// noopLimiter allows every attempt. It is used when throttling is not configured.
type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

func (noopLimiter) Reset(context.Context, string) error { return nil }
