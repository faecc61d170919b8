package catalog

import (
	"net/http"

	"gazet_go/internal/httputil"
	"gazet_go/models"

	"github.com/gin-gonic/gin"
)

// Source - чтение каталога.
type Source interface {
	Snapshot() models.Catalog
	IssueLabels(limit int) []string
}

// Handler отдаёт каталог только для чтения.
type Handler struct {
	Catalog Source
}

func NewHandler(src Source) *Handler {
	return &Handler{Catalog: src}
}

// Get возвращает каталог в том же виде, что и файл хранилища.
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Snapshot())
}

// Issues возвращает метки архива, новые первыми.
func (h *Handler) Issues(c *gin.Context) {
	limit, ok := httputil.QueryLimit(c, 15, 1000)
	if !ok {
		httputil.RespondError(c, http.StatusBadRequest, "limit должен быть положительным числом")
		return
	}
	labels := h.Catalog.IssueLabels(limit)
	if labels == nil {
		labels = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}
