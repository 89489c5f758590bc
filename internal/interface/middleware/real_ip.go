package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the originating client IP and stores it in the context
// under "real_ip". Proxy headers are consulted before gin's own heuristic:
// CF-Connecting-IP first, then the left-most X-Forwarded-For entry.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	if ip := validIP(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := validIP(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}

func validIP(s string) string {
	parsed := net.ParseIP(strings.TrimSpace(s))
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
