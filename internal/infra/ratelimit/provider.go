package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"letsshare/config"
	"letsshare/internal/domain/lifecycle"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

const (
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
)

// Params defines the dependencies of the login limiter.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewLoginAttemptLimiter returns the Redis limiter when redis is configured and
// auth.loginThrottle.maxAttempts is positive, and a limiter that allows
// everything otherwise.
func NewLoginAttemptLimiter(params Params) (service.LoginAttemptLimiter, error) {
	cfg := params.Config
	if cfg.Redis == nil || cfg.Auth == nil || cfg.Auth.LoginThrottle == nil || cfg.Auth.LoginThrottle.MaxAttempts <= 0 {
		params.Logger.Info("Login throttle not configured, allowing all attempts")

		return noopLimiter{}, nil
	}

	client, err := NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			// Throttling fails open, so an unreachable Redis only warrants a warning.
			if err := client.Ping(ctx).Err(); err != nil {
				params.Logger.Warn("Redis unreachable, login throttle will fail open",
					slog.String("error", err.Error()),
				)
			}

			return nil
		},
		OnStop: func(context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	throttle := cfg.Auth.LoginThrottle
	params.Logger.Info("Login throttle enabled",
		slog.Int("max_attempts", throttle.MaxAttempts),
		slog.Duration("window", throttle.Window),
	)

	return NewRedisLimiter(client, throttle.MaxAttempts, throttle.Window), nil
}

// NewRedisClient builds a client from redis.url, with explicit fields taking precedence.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis URL")
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opts.DB = cfg.DB
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.DialTimeout = redisDialTimeout
	opts.ReadTimeout = redisReadTimeout
	opts.WriteTimeout = redisWriteTimeout

	return redis.NewClient(opts), nil
}
