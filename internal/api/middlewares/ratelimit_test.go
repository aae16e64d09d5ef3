package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestRateLimiterAllow tests the per-IP window accounting
func TestRateLimiterAllow(t *testing.T) {
	t.Run("BurstWithinWindow", func(t *testing.T) {
		rl := NewRateLimiter(2, 3)

		for i := 1; i <= 3; i++ {
			assert.True(t, rl.Allow("203.0.113.1"), "Request %d should fit in the burst", i)
		}
		assert.False(t, rl.Allow("203.0.113.1"), "The fourth request exceeds the burst")
		assert.False(t, rl.Allow("203.0.113.1"), "Denied requests stay denied inside the window")
	})

	t.Run("IndependentVisitors", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)

		assert.True(t, rl.Allow("203.0.113.1"))
		assert.False(t, rl.Allow("203.0.113.1"))
		assert.True(t, rl.Allow("203.0.113.2"), "One visitor's burst must not affect another")
	})

	t.Run("WindowResetCarriesExcess", func(t *testing.T) {
		rl := NewRateLimiter(2, 3)

		for i := 0; i < 3; i++ {
			rl.Allow("203.0.113.1")
		}
		assert.False(t, rl.Allow("203.0.113.1"))

		// Age the window out instead of sleeping through it
		rl.mutex.Lock()
		rl.visitors["203.0.113.1"].window = time.Now().Add(-2 * time.Minute)
		rl.mutex.Unlock()

		// One unit of excess above the rate carries into the new window,
		// leaving room for two requests instead of three.
		assert.True(t, rl.Allow("203.0.113.1"))
		assert.True(t, rl.Allow("203.0.113.1"))
		assert.False(t, rl.Allow("203.0.113.1"), "The carried excess shrinks the new window")
	})

	t.Run("BurstClampedToRate", func(t *testing.T) {
		rl := NewRateLimiter(5, 1)
		assert.Equal(t, 5, rl.burst, "A burst below the rate is raised to the rate")
	})
}

// TestRateLimitMiddleware tests the middleware wiring around the limiter
func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(rate, burst int) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(RateLimit(rate, burst))
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})
		return router
	}

	get := func(router *gin.Engine, ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":51234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("EnforcesLimit", func(t *testing.T) {
		router := newRouter(1, 2)

		assert.Equal(t, http.StatusOK, get(router, "203.0.113.1"))
		assert.Equal(t, http.StatusOK, get(router, "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, get(router, "203.0.113.1"))
		assert.Equal(t, http.StatusOK, get(router, "203.0.113.2"), "Another client is unaffected")
	})

	t.Run("DisabledWhenRateIsZero", func(t *testing.T) {
		router := newRouter(0, 0)

		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, get(router, "203.0.113.1"), "A zero rate disables limiting")
		}
	})
}
