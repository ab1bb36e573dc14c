package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kestrelhq/model-registry/pkg/api"
)

// Auth validates a Bearer token against the statically configured service
// keys. An empty key list leaves the API open, for local development.
func Auth(staticKeys []string) gin.HandlerFunc {
	keys := make(map[string]bool, len(staticKeys))
	for _, k := range staticKeys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			keys[trimmed] = true
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Code:    "unauthorized",
				Message: "missing Authorization header",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Code:    "unauthorized",
				Message: "invalid Authorization header format",
			})
			return
		}

		if !keys[parts[1]] {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
				Code:    "unauthorized",
				Message: "invalid API key",
			})
			return
		}

		c.Next()
	}
}
