package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimitOptions configures a token bucket kept in Redis
type RateLimitOptions struct {
	Enabled        bool
	Prefix         string
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

// tokens, last refill and capacity are stored in one hash per key
var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per client IP and route. With a nil client or
// a disabled config every request passes. Redis errors fail open.
func NewTokenBucket(opts RateLimitOptions, rdb *redis.Client) gin.HandlerFunc {
	if !opts.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	opts = opts.withDefaults()

	return func(c *gin.Context) {
		key := rateKey(opts.Prefix, c)

		args := []interface{}{
			time.Now().UnixMilli(),
			opts.Capacity,
			opts.RefillTokens,
			opts.RefillInterval.Milliseconds(),
			int64(opts.TTL / time.Second),
		}

		vals, err := limiterScript.Run(c.Request.Context(), rdb, []string{key}, args...).Result()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		arr, ok := vals.([]interface{})
		if !ok || len(arr) != 3 {
			log.Warn().Str("key", key).Interface("result", vals).Msg("Unexpected rate limiter result")
			c.Next()
			return
		}
		allowed := fmt.Sprint(arr[0]) == "1"
		remaining := asInt64(arr[1])
		retryMs := asInt64(arr[2])

		c.Header("X-RateLimit-Limit", strconv.Itoa(opts.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			secs := retryAfterSeconds(retryMs)
			c.Header("Retry-After", strconv.Itoa(secs))
			log.Info().Str("key", key).Int("retry_after", secs).Msg("Rate limit exceeded")
			abortWithError(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded, try again later")
			return
		}

		c.Next()
	}
}

func (o RateLimitOptions) withDefaults() RateLimitOptions {
	if o.Prefix == "" {
		o.Prefix = "rl"
	}
	if o.Capacity <= 0 {
		o.Capacity = 10
	}
	if o.RefillTokens <= 0 {
		o.RefillTokens = 1
	}
	if o.RefillInterval <= 0 {
		o.RefillInterval = time.Minute
	}
	if o.TTL <= 0 {
		o.TTL = time.Duration(o.Capacity) * o.RefillInterval
	}
	return o
}

func retryAfterSeconds(ms int64) int {
	secs := int(math.Ceil(float64(ms) / 1000.0))
	if secs < 0 {
		return 0
	}
	return secs
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func rateKey(prefix string, c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return strings.Join([]string{prefix, "ip", ip, "route", c.Request.Method + " " + route}, ":")
}
