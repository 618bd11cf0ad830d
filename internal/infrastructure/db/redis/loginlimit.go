package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultFailureLimit  = 5
	defaultFailureWindow = 15 * time.Minute
)

// LoginLimiter counts failed login attempts per username in Redis.
// Key format: login_fail:<username>, expiring after the failure window so a
// locked account unlocks itself without operator action.
type LoginLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter with the default limit and window.
func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client, limit: defaultFailureLimit, window: defaultFailureWindow}
}

// TooManyFailures reports whether the username has reached the failure limit.
func (l *LoginLimiter) TooManyFailures(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limit check: %w", err)
	}
	return n >= l.limit, nil
}

// RecordFailure increments the failure counter. The expiry is refreshed on
// every failure, so the window measures time since the last bad attempt.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "login_fail:" + username
}
