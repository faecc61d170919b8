package moderation

import (
	"net/http"

	"gazet_go/models"

	"github.com/gin-gonic/gin"
)

// Ledger - открытые заявки на проверку чеков.
type Ledger interface {
	Pending() []models.ModerationRequest
}

type Handler struct {
	Ledger Ledger
}

func NewHandler(l Ledger) *Handler {
	return &Handler{Ledger: l}
}

// Pending возвращает незакрытые заявки, старые первыми.
func (h *Handler) Pending(c *gin.Context) {
	reqs := h.Ledger.Pending()
	c.JSON(http.StatusOK, gin.H{"count": len(reqs), "requests": reqs})
}
