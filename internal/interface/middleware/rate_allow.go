package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP builds an AllowFunc that exempts loopback and RFC 1918
// addresses from rate limiting, used for the metrics endpoint.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}
