//go:build unit

package middleware_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/tests/common/httptest"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func requestFrom(t *testing.T, r *gin.Engine, ip string) *nethttptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(t, http.MethodGet, "/limited", nil)
	req.RemoteAddr = ip + ":40000"
	rec := nethttptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newRedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisRateLimiter(t *testing.T) {
	t.Run("rejects requests beyond the window limit per client", func(t *testing.T) {
		mr := miniredis.RunT(t)
		limiter := middleware.NewRedisRateLimiter(newRedisClient(t, mr), 2, time.Minute, "test", true)
		r := limitedRouter(limiter.Middleware())

		first := requestFrom(t, r, "203.0.113.7")
		assert.Equal(t, http.StatusOK, first.Code)
		httptest.AssertHeaders(t, first, map[string]string{"X-RateLimit-Remaining": "1", "Retry-After": ""})
		assert.Equal(t, http.StatusOK, requestFrom(t, r, "203.0.113.7").Code)

		blocked := requestFrom(t, r, "203.0.113.7")
		assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
		httptest.AssertHeaders(t, blocked, map[string]string{"Retry-After": "60", "X-RateLimit-Remaining": ""})

		assert.Equal(t, http.StatusOK, requestFrom(t, r, "198.51.100.9").Code, "other clients keep their own budget")
	})

	t.Run("window expiry resets the budget", func(t *testing.T) {
		mr := miniredis.RunT(t)
		limiter := middleware.NewRedisRateLimiter(newRedisClient(t, mr), 1, time.Minute, "test", true)
		r := limitedRouter(limiter.Middleware())

		require.Equal(t, http.StatusOK, requestFrom(t, r, "203.0.113.7").Code)
		require.Equal(t, http.StatusTooManyRequests, requestFrom(t, r, "203.0.113.7").Code)
		assert.Greater(t, mr.TTL("test:203.0.113.7"), time.Duration(0))

		mr.FastForward(time.Minute + time.Second)

		assert.Equal(t, http.StatusOK, requestFrom(t, r, "203.0.113.7").Code)
	})

	t.Run("redis outage fails open when configured", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := newRedisClient(t, mr)
		mr.Close()

		r := limitedRouter(middleware.NewRedisRateLimiter(rdb, 1, time.Minute, "test", true).Middleware())
		assert.Equal(t, http.StatusOK, requestFrom(t, r, "203.0.113.7").Code)
	})

	t.Run("redis outage fails closed when configured", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := newRedisClient(t, mr)
		mr.Close()

		r := limitedRouter(middleware.NewRedisRateLimiter(rdb, 1, time.Minute, "test", false).Middleware())
		assert.Equal(t, http.StatusServiceUnavailable, requestFrom(t, r, "203.0.113.7").Code)
	})
}

func TestIPRateLimiter(t *testing.T) {
	t.Run("burst is enforced per client ip", func(t *testing.T) {
		r := limitedRouter(middleware.NewIPRateLimiter(0.001, 2).Middleware())

		assert.Equal(t, http.StatusOK, requestFrom(t, r, "203.0.113.7").Code)
		assert.Equal(t, http.StatusOK, requestFrom(t, r, "203.0.113.7").Code)

		blocked := requestFrom(t, r, "203.0.113.7")
		assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
		httptest.AssertHeaders(t, blocked, map[string]string{"Retry-After": "1"})

		assert.Equal(t, http.StatusOK, requestFrom(t, r, "198.51.100.9").Code)
	})
}
