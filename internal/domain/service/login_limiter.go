package service

import "context"

// LoginAttemptLimiter throttles repeated login attempts for the same key.
type LoginAttemptLimiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	// Implementations may fail open: an error can accompany allowed=true.
	Allow(ctx context.Context, key string) (bool, error)

	// Reset clears the attempt counter, typically after a successful login.
	Reset(ctx context.Context, key string) error
}
