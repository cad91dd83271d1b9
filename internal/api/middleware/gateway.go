package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GatewayAuth trusts user info from gateway headers (X-User-ID, X-User-Email).
// Authentication itself lives in the hosting gateway; this API only records
// the forwarded identity for logging and share attribution.
//
// When AUTH_MODE=gateway, the API trusts these headers unconditionally.
// This should ONLY be used in the hosted environment with proper network
// isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing X-User-ID header from gateway",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", c.GetHeader("X-User-Email"))

		c.Next()
	}
}

// NoAuth is a pass-through middleware for when AUTH_MODE=none.
// It allows all requests without authentication.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set a dummy user ID for logging purposes
		c.Set("user_id", "anonymous")
		c.Next()
	}
}

// GetUserID retrieves the forwarded user ID, if any.
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
