package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua script for the sign-in attempt counter. Checking and reading
// the counter in one script keeps concurrent failed attempts from
// racing past the limit.
const loginLimitLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])

local current = tonumber(redis.call("GET", key) or "0")
if current >= limit then
    return {0, current}
end
return {1, current}
`

const loginFailureLuaScript = `
local key = KEYS[1]
local ttl = tonumber(ARGV[1])

local current = redis.call("INCR", key)
if current == 1 then
    redis.call("EXPIRE", key, ttl)
end
return current
`

// LoginLimiter caps failed sign-in attempts per account within a
// rolling window. Successful sign-ins do not consume attempts; only
// failures count.
type LoginLimiter struct {
	client       *redis.Client
	checkScript  *redis.Script
	recordScript *redis.Script
	maxAttempts  int
	window       time.Duration
}

// NewLoginLimiter creates a limiter allowing maxAttempts failures per
// window for each account.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{
		client:       client,
		checkScript:  redis.NewScript(loginLimitLuaScript),
		recordScript: redis.NewScript(loginFailureLuaScript),
		maxAttempts:  maxAttempts,
		window:       window,
	}
}

func (l *LoginLimiter) key(email string) string {
	return fmt.Sprintf("auth:failures:%s", email)
}

// Allow reports whether the account may attempt a sign-in.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	result, err := l.checkScript.Run(ctx, l.client, []string{l.key(email)}, l.maxAttempts).Result()
	if err != nil {
		return false, fmt.Errorf("checking login limit: %w", err)
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 1 {
		return false, fmt.Errorf("unexpected limiter reply: %v", result)
	}
	allowed, _ := values[0].(int64)
	return allowed == 1, nil
}

// RecordFailure counts one failed attempt against the account.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	err := l.recordScript.Run(ctx, l.client, []string{l.key(email)}, int(l.window.Seconds())).Err()
	if err != nil {
		return fmt.Errorf("recording login failure: %w", err)
	}
	return nil
}

// Reset clears the failure counter, typically after a successful
// sign-in.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("resetting login failures: %w", err)
	}
	return nil
}
