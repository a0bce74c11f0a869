package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments a fixed-window counter atomically.
// KEYS[1] = window key
// ARGV[1] = window length in milliseconds
// Returns: [count, elapsed_ms_since_window_start]
const incrScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
local elapsed = tonumber(ARGV[1]) - ttl
if elapsed < 0 then
	elapsed = 0
end
return {count, elapsed}
`

// RedisCounter is the distributed Counter backend for multi-instance
// deployments. The INCR+PEXPIRE pair runs as one Lua script so two
// instances can never both open a window for the same key.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (rc *RedisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := time.Now()

	result, err := rc.client.Eval(ctx, incrScript, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to eval rate script: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected rate script reply: %v", result)
	}

	count, ok := values[0].(int64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unexpected count type in rate script reply: %T", values[0])
	}
	elapsedMs, ok := values[1].(int64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("unexpected ttl type in rate script reply: %T", values[1])
	}

	windowStart := now.Add(-time.Duration(elapsedMs) * time.Millisecond)
	return count, windowStart, nil
}
