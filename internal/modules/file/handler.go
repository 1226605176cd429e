package file

import (
	"context"
	"errors"
	"io"
	"net/http"

	"smap/internal/pkg/response"
	"smap/internal/storage"

	"github.com/gin-gonic/gin"
)

// FileStore uploads a document and returns its public URL.
type FileStore interface {
	Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// Handler exposes the standalone upload endpoint used to attach photos to
// items. The store may be nil when object storage is not configured.
type Handler struct {
	files FileStore
}

func NewHandler(files FileStore) *Handler {
	return &Handler{files: files}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files/upload", h.Upload)
}

func (h *Handler) Upload(c *gin.Context) {
	if h.files == nil {
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_ERROR", "File storage is not configured")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "A multipart \"file\" part is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read uploaded file")
		return
	}
	defer f.Close()

	url, err := h.files.Store(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Only jpeg, png and webp files are accepted")
			return
		}
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "File upload failed")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}
