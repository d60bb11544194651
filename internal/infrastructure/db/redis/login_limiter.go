package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultLoginWindow = 15 * time.Minute
)

// attemptScript increments the counter and gives it a window whenever it has
// none, so a key can never outlive its window. Returns {count, pttl}.
var attemptScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return { count, ttl }
`)

// LoginLimiter counts login attempts per subject in a fixed window.
// Key format: ratelimit:login:<subject>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow records one attempt for subject and reports whether it is within the
// limit. When denied it also returns the time until the window resets.
func (l *LoginLimiter) Allow(ctx context.Context, subject string) (bool, time.Duration, error) {
	key := "ratelimit:login:" + subject

	vals, err := attemptScript.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("login limiter: %w", err)
	}
	if len(vals) != 2 {
		return false, 0, fmt.Errorf("login limiter: unexpected script reply %v", vals)
	}
	if vals[0] <= l.maxAttempts {
		return true, 0, nil
	}
	return false, time.Duration(vals[1]) * time.Millisecond, nil
}

// Reset clears the counter for subject, typically after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, subject string) error {
	return l.client.Del(ctx, "ratelimit:login:"+subject).Err()
}
