package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/skillboost/skillboost-api/pkg/response"
)

// KeyFunc derives the rate-limit bucket key from a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request may bypass the limiter entirely.
type AllowFunc func(c *gin.Context) bool

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIP buckets requests per client IP.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + clientIP(c)
	}
}

// KeyByIPAndPath buckets requests per route template and client IP, so a
// burst against one endpoint does not starve the rest of the API.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routePath(c) + ":ip:" + clientIP(c)
	}
}

// KeyByUserID buckets authenticated requests per user and falls back to the
// client IP for anonymous traffic.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + clientIP(c)
	}
}

// AllowPrivateIP bypasses the limiter for loopback and RFC 1918 clients,
// which covers health checks and in-cluster traffic.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(clientIP(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// INCR and PEXPIRE must happen atomically or a crash between them leaves an
// immortal counter.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit enforces a fixed-window counter in Redis. It emits the
// X-RateLimit-* headers and fails open when Redis is unreachable.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyFn(c)

		raw, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Result()
		if err != nil {
			// fail open on Redis errors
			c.Next()
			return
		}
		count, _ := raw.(int64)

		resetSec := 0
		if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			resetSec = int(ttl.Seconds())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max-int(count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if int(count) > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.AbortError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
