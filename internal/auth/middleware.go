package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware validates the Bearer token on each request and loads the fresh
// user into the Gin context under "user_id", "user" and "is_admin"
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			c.Abort()
			return
		}

		user, err := s.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("is_admin", IsAdmin(user))
		c.Next()
	}
}

// OptionalMiddleware loads the user when a valid token is present but lets
// anonymous requests through. Feed reads work logged out
func (s *Service) OptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if user, err := s.ValidateToken(tokenString); err == nil {
				c.Set("user_id", user.ID)
				c.Set("user", user)
				c.Set("is_admin", IsAdmin(user))
			}
		}
		c.Next()
	}
}

// RequireAdmin gates a route group to admin users. Must run after Middleware
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || isAdmin != true {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin_access_required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// WebSocket clients can't set headers from the browser
	if token := c.Query("token"); token != "" {
		return token
	}
	return auth
}
