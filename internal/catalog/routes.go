package catalog

import "github.com/gin-gonic/gin"

// SetupRoutes регистрирует маршруты каталога
func SetupRoutes(r *gin.RouterGroup, src Source) {
	h := NewHandler(src)
	r.GET("", h.Get)
	r.GET("/issues", h.Issues)
}
