package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin protège le back office. À chaîner après AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
			c.Abort()
			return
		}
		c.Next()
	}
}
