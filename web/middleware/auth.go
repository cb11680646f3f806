// Package middleware provides the request-level checks of the panel API:
// bearer-token authentication, authorization-level enforcement and host
// validation.
package middleware

import (
	"net/http"
	"strings"

	"user-panel/web/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by TokenAuth for downstream handlers.
const (
	ContextClaims   = "claims"
	ContextUserId   = "user_id"
	ContextUsername = "username"
	ContextLevel    = "user_level"
)

// TokenAuth extracts and verifies the bearer token. Verification failure
// reasons are not distinguished to the client.
func TokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no token provided"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no token provided"})
			return
		}

		claims, err := token.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		userId, err := claims.UserId()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserId, userId)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextLevel, claims.Level)
		c.Next()
	}
}

// LevelRequired permits only requests whose token level is in the given
// set. Must run after TokenAuth.
func LevelRequired(levels ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(levels))
	for _, level := range levels {
		allowed[level] = true
	}
	return func(c *gin.Context) {
		levelVal, exists := c.Get(ContextLevel)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no token provided"})
			return
		}
		level, ok := levelVal.(string)
		if !ok || !allowed[level] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":          "insufficient permissions",
				"requiredLevels": levels,
				"userLevel":      level,
			})
			return
		}
		c.Next()
	}
}
