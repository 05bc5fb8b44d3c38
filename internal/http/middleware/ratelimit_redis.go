// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedisStore, a fixed-window Store whose counters live in
// Redis so that every instance enforces the same login limit. A window starts
// on the first hit for a key and expires with it.
package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the window counter, starts the window on the
// first hit and returns {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`)

// RedisStore is a fixed-window Store shared by every instance pointing at the
// same Redis. Each key allows limit requests per window.
type RedisStore struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

// NewRedisStore constructs a RedisStore. Keys are namespaced with prefix.
func NewRedisStore(rdb redis.Scripter, prefix string, limit int, window time.Duration) *RedisStore {
	if limit < 1 {
		limit = 1
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	return &RedisStore{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow counts one request against the current window of key.
func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindowScript.Run(ctx, s.rdb, []string{s.prefix + key}, s.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit redis: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit redis: unexpected reply %v", res)
	}

	if int(res[0]) <= s.limit {
		return Decision{Allowed: true}, nil
	}
	retry := time.Duration(res[1]) * time.Millisecond
	if retry <= 0 {
		retry = s.window
	}
	return Decision{RetryAfter: retry}, nil
}
