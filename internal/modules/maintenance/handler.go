package maintenance

import (
	"errors"
	"net/http"
	"strconv"

	"smap/internal/pkg/response"
	"smap/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/maintenance", h.List)
	rg.GET("/maintenance/:id", h.Get)
	rg.POST("/maintenance", h.Open)
	rg.POST("/maintenance/:id/complete", h.Close)
}

func (h *Handler) Open(c *gin.Context) {
	var req OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	v, err := h.service.Open(c.Request.Context(), req, c.GetString("username"))
	if err != nil {
		h.writeError(c, err, "Failed to open maintenance ticket")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"ticket": v})
}

func (h *Handler) Close(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	var req CloseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	v, err := h.service.Close(c.Request.Context(), id, req, c.GetString("username"))
	if err != nil {
		h.writeError(c, err, "Failed to close maintenance ticket")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ticket": v})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid ticket id")
		return
	}

	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch maintenance ticket")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ticket": v})
}

func (h *Handler) List(c *gin.Context) {
	page, size := pagination(c)
	views, total, err := h.service.List(c.Request.Context(), page, size, c.Query("sort_by"), c.Query("sort_dir"))
	if err != nil {
		h.writeError(c, err, "Failed to list maintenance tickets")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tickets": views,
		"page":    page,
		"size":    size,
		"total":   total,
	})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		msg := "Subject and symptomatic lines are required"
		if err != ErrValidation {
			msg = err.Error()
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msg)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Maintenance ticket not found")
	case errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "One of the requested items does not exist")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrItemUnavailable):
		response.Error(c, http.StatusConflict, "STATE_CONFLICT", "One of the requested items is not available")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func pagination(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
