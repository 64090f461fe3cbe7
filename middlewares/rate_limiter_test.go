package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimit())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func TestRateLimitBlocksAfterThreshold(t *testing.T) {
	router := setupLimitedRouter(NewRateLimiter(3, 60))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSweepDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(10, 60)
	now := time.Now()

	rl.ips["10.0.0.1"] = []time.Time{now.Add(-5 * time.Minute)}
	rl.ips["10.0.0.2"] = []time.Time{now.Add(-5 * time.Minute), now.Add(-10 * time.Second)}
	rl.lastSweep = now.Add(-2 * time.Minute)

	rl.sweep(now)

	_, idleGone := rl.ips["10.0.0.1"]
	assert.False(t, idleGone)
	_, activeKept := rl.ips["10.0.0.2"]
	assert.True(t, activeKept)
}

func TestSweepThrottledToInterval(t *testing.T) {
	rl := NewRateLimiter(10, 60)
	now := time.Now()

	rl.ips["10.0.0.1"] = []time.Time{now.Add(-5 * time.Minute)}
	rl.lastSweep = now.Add(-10 * time.Second)

	// Swept recently; the stale entry survives until the next interval.
	rl.sweep(now)
	_, kept := rl.ips["10.0.0.1"]
	assert.True(t, kept)
}
