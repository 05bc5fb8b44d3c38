// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements per-identity rate limiting on top of a pluggable Store.
// Two stores ship with the package:
//
//   - MemoryStore: in-process token buckets (golang.org/x/time/rate) with
//     opportunistic garbage collection of idle buckets. Used for the global
//     API limit and for the login limit of single-instance deployments.
//   - RedisStore: fixed windows shared across instances (ratelimit_redis.go).
//
// Rejected requests are reported as a Throttled failure with a Retry-After
// header and rendered by ErrorTranslator. The limiter is intended for abuse
// control; it is not an authorization mechanism.
package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-account-api/internal/failure"
)

// keyFunc selects the identity used to key a rate-limit bucket.
//
// Implementations should return a stable string for the duration of a request
// (e.g., "user:<id>" or "ip:<addr>").
type keyFunc func(*gin.Context) string

// KeyByUserOrIP returns a keyFunc that prefers the authenticated user (Gin
// context key "userID", set by Authenticate) and falls back to the client IP.
//
// The resulting keys are prefixed to avoid collisions between user and IP
// namespaces (e.g., "user:abc123" vs "ip:203.0.113.7").
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get(ctxKeyUserID); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// KeyByIP keys buckets by client IP only. Login uses it since the caller is
// not yet authenticated.
func KeyByIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// Decision is the outcome of one Store lookup.
type Decision struct {
	Allowed bool
	// RetryAfter is how long the caller should wait; zero when allowed.
	RetryAfter time.Duration
}

// Store decides whether one more request for key is allowed.
type Store interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// visitor holds a single rate limiter and the last time it was seen.
// Used to opportunistically evict idle buckets.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per key in process memory.
//
// Buckets are created on demand. Idle buckets are evicted after a TTL via
// opportunistic cleanup during lookups to keep memory usage bounded.
//
// This type is safe for concurrent use.
type MemoryStore struct {
	rps      rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewMemoryStore constructs a MemoryStore with the given tokens-per-second
// and burst size. Burst values <= 0 are coerced to 1.
func NewMemoryStore(rps float64, burst int) *MemoryStore {
	if burst <= 0 {
		burst = 1
	}
	return &MemoryStore{
		rps:      rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute, // evict idle entries after TTL
	}
}

// NewWindowMemoryStore spreads limit requests evenly over window, allowing all
// of them as an initial burst.
func NewWindowMemoryStore(limit int, window time.Duration) *MemoryStore {
	if window <= 0 {
		window = time.Minute
	}
	return NewMemoryStore(float64(limit)/window.Seconds(), limit)
}

// getVisitor returns (and updates) the limiter for key, creating it if absent.
// It also performs opportunistic GC of idle entries after ~5000 lookups.
//
// GC runs before touching the requested visitor so an idle bucket is evicted
// even when it is the one being fetched.
func (s *MemoryStore) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupN++
	if s.cleanupN >= 5000 {
		for k, vv := range s.visitors {
			if now.Sub(vv.lastSeen) >= s.ttl {
				delete(s.visitors, k)
			}
		}
		s.cleanupN = 0
	}

	if v, ok := s.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Allow consumes one token from the bucket of key.
func (s *MemoryStore) Allow(_ context.Context, key string) (Decision, error) {
	if s.getVisitor(key).Allow() {
		return Decision{Allowed: true}, nil
	}
	return Decision{RetryAfter: s.refill()}, nil
}

// refill is the time one token takes to come back.
func (s *MemoryStore) refill() time.Duration {
	if s.rps <= 0 || math.IsInf(float64(s.rps), 1) {
		return time.Second
	}
	return time.Duration(float64(time.Second) / float64(s.rps))
}

// RateLimiter enforces a Store's decisions per request identity.
type RateLimiter struct {
	store Store
	keyFn keyFunc

	// OnReject, when set, runs for every throttled request before it aborts.
	OnReject func(*gin.Context)
}

// NewRateLimiter constructs a RateLimiter over store, keyed by keyFn.
func NewRateLimiter(store Store, keyFn keyFunc) *RateLimiter {
	return &RateLimiter{store: store, keyFn: keyFn}
}

// Handler returns a Gin middleware that enforces the limit.
//
// Behavior:
//   - Allowed requests proceed.
//   - Rejected requests get a Retry-After header (whole seconds, at least 1)
//     and abort with a Throttled failure:
//
//     HTTP/1.1 429 Too Many Requests
//     {"detail": "Request was throttled. Expected available in 1 second."}
//
//   - Store errors fail open and are logged at warn level.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.keyFn(c)
		d, err := rl.store.Allow(c.Request.Context(), key)
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if d.Allowed {
			c.Next()
			return
		}

		if rl.OnReject != nil {
			rl.OnReject(c)
		}
		secs := retrySeconds(d.RetryAfter)
		c.Header("Retry-After", strconv.Itoa(secs))
		abortWith(c, failure.NewThrottled(throttleMessage(secs)))
	}
}

func retrySeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func throttleMessage(secs int) string {
	unit := "seconds"
	if secs == 1 {
		unit = "second"
	}
	return fmt.Sprintf("Request was throttled. Expected available in %d %s.", secs, unit)
}
