package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter(t *testing.T) {
	lim := NewLocalLimiter(RateLimitConfig{Window: time.Hour, Limit: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := lim.IsAllowed(ctx, "a")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, reset, err := lim.IsAllowed(ctx, "a")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.True(t, reset.After(time.Now()))

	// other keys have their own bucket
	allowed, _, _, err = lim.IsAllowed(ctx, "b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLocalLimiterSweepDropsIdleBuckets(t *testing.T) {
	lim := NewLocalLimiter(RateLimitConfig{Window: time.Hour, Limit: 2})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_, _, _, err := lim.IsAllowed(ctx, uuid.NewString())
		require.NoError(t, err)
	}
	_, _, _, err := lim.IsAllowed(ctx, "busy")
	require.NoError(t, err)
	assert.Zero(t, lim.Sweep())

	now = now.Add(50 * time.Minute)
	_, _, _, err = lim.IsAllowed(ctx, "busy")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1000, lim.Sweep())
	assert.Len(t, lim.limiters, 1)
	assert.Contains(t, lim.limiters, "busy")
}

func TestClientRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/session",
		ClientRateLimitMiddleware(NewLocalLimiter(RateLimitConfig{Window: time.Hour, Limit: 1})),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/session", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send("192.0.2.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:2000"))
	assert.Equal(t, http.StatusCreated, send("192.0.2.2:1000"))
}

func TestNewSessionRateLimiterFallsBackToLocal(t *testing.T) {
	lim := NewSessionRateLimiter(nil, 5)
	_, ok := lim.(*LocalLimiter)
	assert.True(t, ok)
	assert.Equal(t, "rate_limit:session", lim.Config().KeyPrefix)
}

func TestNewSearchRateLimiterFallsBackToLocal(t *testing.T) {
	lim := NewSearchRateLimiter(nil, 10)
	_, ok := lim.(*LocalLimiter)
	assert.True(t, ok)
	assert.Equal(t, 10, lim.Config().Limit)
}

func TestRateLimitMiddleware(t *testing.T) {
	sessionID := uuid.New()
	router := gin.New()
	router.GET("/search",
		func(c *gin.Context) { c.Set(SessionIDKey, sessionID) },
		RateLimitMiddleware(NewLocalLimiter(RateLimitConfig{Window: time.Hour, Limit: 2})),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/search", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/search", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitMiddlewareRequiresSession(t *testing.T) {
	router := gin.New()
	router.GET("/search", RateLimitMiddleware(NewLocalLimiter(RateLimitConfig{Window: time.Hour, Limit: 2})))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/search", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRedisLimiter(t *testing.T) {
	// Skip this test if no Redis is available
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis-dependent test - REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	lim := NewRedisLimiter(client, RateLimitConfig{
		Window:    time.Minute,
		Limit:     2,
		KeyPrefix: "test:rate_limit:" + uuid.NewString(),
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, _, err := lim.IsAllowed(ctx, "s")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, _, err := lim.IsAllowed(ctx, "s")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
}
