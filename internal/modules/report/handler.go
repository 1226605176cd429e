package report

import (
	"fmt"
	"net/http"
	"time"

	"smap/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/items.csv", h.ItemRegister)
}

func (h *Handler) ItemRegister(c *gin.Context) {
	filename := fmt.Sprintf("items-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.WriteItemRegister(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; only write the envelope when the
		// body is still untouched.
		if !c.Writer.Written() {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export item register")
		}
		return
	}
}
