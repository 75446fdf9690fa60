package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewTokenBucket_PassesThroughWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		opts RateLimitOptions
	}{
		{"disabled", RateLimitOptions{Enabled: false, Capacity: 1}},
		{"enabled without client", RateLimitOptions{Enabled: true, Capacity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/login", NewTokenBucket(tt.opts, nil), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
			}
		})
	}
}

func TestRateLimitOptions_WithDefaults(t *testing.T) {
	opts := RateLimitOptions{Enabled: true}.withDefaults()

	assert.Equal(t, "rl", opts.Prefix)
	assert.Equal(t, 10, opts.Capacity)
	assert.Equal(t, 1, opts.RefillTokens)
	assert.Equal(t, time.Minute, opts.RefillInterval)
	assert.Equal(t, 10*time.Minute, opts.TTL)

	custom := RateLimitOptions{Prefix: "login", Capacity: 3, RefillTokens: 2, RefillInterval: time.Second, TTL: time.Hour}.withDefaults()
	assert.Equal(t, "login", custom.Prefix)
	assert.Equal(t, 3, custom.Capacity)
	assert.Equal(t, time.Hour, custom.TTL)
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		ms   int64
		want int
	}{
		{0, 0},
		{1, 1},
		{1000, 1},
		{1001, 2},
		{-50, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, retryAfterSeconds(tt.ms))
	}
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(4), asInt64(int64(4)))
	assert.Equal(t, int64(4), asInt64(4))
	assert.Equal(t, int64(4), asInt64(float64(4)))
	assert.Equal(t, int64(4), asInt64("4"))
	assert.Equal(t, int64(0), asInt64("four"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestRateKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var key string
	router := gin.New()
	router.POST("/api/v1/users/login", func(c *gin.Context) {
		key = rateKey("login", c)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "login:ip:203.0.113.9:route:POST /api/v1/users/login", key)
}
