package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/auth"
)

const (
	// ContextKeyUserID holds the key for user ID in Gin context.
	ContextKeyUserID = "userID"
	// ContextKeyIsAdmin holds the key for admin status in Gin context.
	ContextKeyIsAdmin = "isAdmin"
)

// bearerToken extracts the token from an Authorization header, if any.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be Bearer {token}"})
			return
		}

		claims, err := auth.ValidateJWT(tokenString, jwtSecret)
		if err != nil {
			errMsg := fmt.Sprintf("Invalid or expired token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
			return
		}

		// Set user info in context for handlers to use
		c.Set(ContextKeyUserID, claims.UserID) // Store as string (hex representation)
		c.Set(ContextKeyIsAdmin, claims.IsAdmin)

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller's identity when a valid token is
// present and otherwise lets the request through anonymously. A malformed or
// expired token is treated the same as no token: the public submission
// endpoint must keep working for logged-out visitors whose stale tokens the
// frontend still sends.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if ok {
			claims, err := auth.ValidateJWT(tokenString, jwtSecret)
			if err != nil {
				log.Printf("WARN: ignoring invalid token on optional-auth route: %v", err)
			} else {
				c.Set(ContextKeyUserID, claims.UserID)
				c.Set(ContextKeyIsAdmin, claims.IsAdmin)
			}
		}
		c.Next()
	}
}

// AdminMiddleware creates a Gin middleware to check for admin privileges.
// Assumes AuthMiddleware runs first.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get(ContextKeyIsAdmin)
		if !exists || !isAdmin.(bool) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator privileges required"})
			return
		}
		c.Next()
	}
}
