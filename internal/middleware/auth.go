package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthRequired проверяет статичный Bearer-токен. С пустым токеном пропускать некого.
func AuthRequired(token string) gin.HandlerFunc {
	expected := "Bearer " + token
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
