package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// apiKeyMiddleware accepts the static key from X-API-Key or a Bearer
// Authorization header. It lets everything through when no key is set.
func (h *Handler) apiKeyMiddleware(c *gin.Context) {
	if h.apiKey == "" {
		c.Next()
		return
	}

	key := c.GetHeader(apiKeyHeader)
	if key == "" {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}
		key = parts[1]
	}

	if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		if h.log != nil {
			h.log.Infow("api_key_rejected", "path", c.FullPath(), "remote", c.ClientIP())
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid API key",
		})
		return
	}
	c.Next()
}
