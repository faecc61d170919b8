package moderation

import (
	"gazet_go/internal/logging"
	"gazet_go/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes регистрирует маршруты заявок под Bearer-токеном.
// Без токена маршрут не регистрируется: данные заявок только для оператора.
func SetupRoutes(r *gin.RouterGroup, l Ledger, token string) {
	if token == "" {
		logging.New("HTTP").Printf("[WARN] API_TOKEN не задан, %s отключён", r.BasePath())
		return
	}
	h := NewHandler(l)
	r.GET("", middleware.AuthRequired(token), h.Pending)
}
