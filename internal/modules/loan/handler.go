package loan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

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
	rg.GET("/loans", h.List)
	rg.GET("/loans/:id", h.Get)
	rg.POST("/loans", h.Open)
	rg.POST("/loans/:id/return", h.Close)
}

func (h *Handler) Open(c *gin.Context) {
	var req OpenLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
		return
	}

	v, err := h.service.Open(c.Request.Context(), req, c.GetString("username"))
	if err != nil {
		h.writeError(c, err, "Failed to open loan")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"loan": v})
}

// Close accepts either plain JSON or a multipart form with a JSON "payload"
// part plus an optional "evidence" file.
func (h *Handler) Close(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan id")
		return
	}

	var req CloseLoanRequest
	var evidence *Evidence

	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/") {
		payload := c.PostForm("payload")
		if payload != "" {
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payload part")
				return
			}
		}

		if fh, err := c.FormFile("evidence"); err == nil {
			f, err := fh.Open()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read evidence file")
				return
			}
			defer f.Close()
			evidence = &Evidence{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Reader:      f,
			}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.Details(err))
			return
		}
	}

	v, err := h.service.Close(c.Request.Context(), id, req, evidence, c.GetString("username"))
	if err != nil {
		h.writeError(c, err, "Failed to close loan")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loan": v})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid loan id")
		return
	}

	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch loan")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"loan": v})
}

func (h *Handler) List(c *gin.Context) {
	page, size := pagination(c)
	views, total, err := h.service.List(c.Request.Context(), page, size, c.Query("sort_by"), c.Query("sort_dir"))
	if err != nil {
		h.writeError(c, err, "Failed to list loans")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"loans": views,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		msg := "Items and purpose are required"
		if err != ErrValidation {
			msg = err.Error()
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msg)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Loan not found")
	case errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "One of the requested items does not exist")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrItemUnavailable):
		response.Error(c, http.StatusConflict, "STATE_CONFLICT", "One of the requested items is not available")
	case errors.Is(err, ErrStorage):
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Evidence upload failed")
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
