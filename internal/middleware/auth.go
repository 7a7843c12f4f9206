package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sanneekanupuru/SmartRide/internal/auth"
	"github.com/sanneekanupuru/SmartRide/internal/domain"
)

const (
	ctxUserIDKey   = "authUserID"
	ctxUserRoleKey = "authUserRole"
)

// Authenticate returns middleware that validates the Bearer token and stores
// the caller's identity on the request context.
func Authenticate(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxUserRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole returns middleware that rejects callers without the given role.
// It must run after Authenticate.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": string(role) + " role required"})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user's ID, or "" when unauthenticated.
func CallerID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// CallerRole returns the authenticated user's role, or "" when unauthenticated.
func CallerRole(c *gin.Context) string {
	return c.GetString(ctxUserRoleKey)
}
