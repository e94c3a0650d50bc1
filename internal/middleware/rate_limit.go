package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether one more request for key fits in the budget.
// Returns: allowed, remaining requests, reset time, error
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error)
	Config() RateLimitConfig
}

// RedisLimiter is a fixed-window limiter shared by every API instance
type RedisLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(client redis.Cmdable, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{redis: client, config: config}
}

func (rl *RedisLimiter) Config() RateLimitConfig { return rl.config }

// IsAllowed counts the request and checks it against the window budget
func (rl *RedisLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// LocalLimiter is a per-process token bucket per key, used when no Redis is
// configured. The bucket holds Limit tokens and refills over Window.
type LocalLimiter struct {
	config   RateLimitConfig
	mu       sync.Mutex
	limiters map[string]*localBucket
	now      func() time.Time
}

type localBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates a new in-process limiter
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:   config,
		limiters: make(map[string]*localBucket),
		now:      time.Now,
	}
}

func (l *LocalLimiter) Config() RateLimitConfig { return l.config }

func (l *LocalLimiter) IsAllowed(_ context.Context, key string) (bool, int, time.Time, error) {
	now := l.now()

	l.mu.Lock()
	bucket, ok := l.limiters[key]
	if !ok {
		bucket = &localBucket{
			lim: rate.NewLimiter(rate.Every(l.config.Window/time.Duration(l.config.Limit)), l.config.Limit),
		}
		l.limiters[key] = bucket
	}
	bucket.lastSeen = now
	lim := bucket.lim
	l.mu.Unlock()

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	// time until the next token is available
	missing := 1 - tokens
	if missing < 0 {
		missing = 0
	}
	reset := now.Add(time.Duration(missing * float64(time.Second) / float64(lim.Limit())))

	return allowed, remaining, reset, nil
}

// Sweep drops buckets idle for a whole window. Such a bucket has refilled
// completely, so dropping it changes no decision. Returns the number dropped.
func (l *LocalLimiter) Sweep() int {
	cutoff := l.now().Add(-l.config.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, bucket := range l.limiters {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			dropped++
		}
	}
	return dropped
}

// NewSearchRateLimiter picks the Redis limiter when a client is available
func NewSearchRateLimiter(client redis.Cmdable, perHour int) Limiter {
	return newHourlyLimiter(client, "rate_limit:recipe_search", perHour)
}

// NewSessionRateLimiter limits how many sessions one client may create
func NewSessionRateLimiter(client redis.Cmdable, perHour int) Limiter {
	return newHourlyLimiter(client, "rate_limit:session", perHour)
}

func newHourlyLimiter(client redis.Cmdable, prefix string, perHour int) Limiter {
	config := RateLimitConfig{
		Window:    time.Hour,
		Limit:     perHour,
		KeyPrefix: prefix,
	}
	if client == nil {
		return NewLocalLimiter(config)
	}
	return NewRedisLimiter(client, config)
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting per session
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return rateLimit(limiter, func(c *gin.Context) (string, bool) {
		sessionID, ok := SessionID(c)
		return sessionID.String(), ok
	})
}

// ClientRateLimitMiddleware enforces rate limiting per client IP, for routes
// called before a session exists
func ClientRateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return rateLimit(limiter, func(c *gin.Context) (string, bool) {
		return c.ClientIP(), true
	})
}

func rateLimit(limiter Limiter, keyOf func(c *gin.Context) (string, bool)) gin.HandlerFunc {
	cfg := limiter.Config()
	return func(c *gin.Context) {
		key, exists := keyOf(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			c.Abort()
			return
		}

		allowed, remaining, resetTime, err := limiter.IsAllowed(c.Request.Context(), key)
		if err != nil {
			// Log error but don't fail the request
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the limit of %d requests per %v", cfg.Limit, cfg.Window),
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
