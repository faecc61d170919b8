package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondError отправляет сообщение об ошибке в едином формате и прекращает обработку запроса.
func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// QueryLimit читает положительный параметр limit. Без параметра возвращает def.
func QueryLimit(c *gin.Context, def, max int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n > max {
		n = max
	}
	return n, true
}
