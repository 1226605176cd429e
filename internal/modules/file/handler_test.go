package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"smap/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Store(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, r)
	return args.String(0), args.Error(1)
}

func uploadRequest(t *testing.T, filename, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func uploadRouter(h *Handler) *gin.Engine {
	router := gin.New()
	h.RegisterRoutes(router.Group("/"))
	return router
}

func TestUpload_Success(t *testing.T) {
	mockFiles := new(MockFileStore)
	mockFiles.On("Store", mock.Anything, "photo.jpg", "image/jpeg", mock.Anything).
		Return("https://cdn.example.com/abc.jpg", nil)

	router := uploadRouter(NewHandler(mockFiles))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "photo.jpg", "image/jpeg"))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn.example.com/abc.jpg")
	mockFiles.AssertExpectations(t)
}

func TestUpload_UnsupportedType(t *testing.T) {
	mockFiles := new(MockFileStore)
	mockFiles.On("Store", mock.Anything, "malware.exe", "application/octet-stream", mock.Anything).
		Return("", fmt.Errorf("%w: application/octet-stream", storage.ErrUnsupportedType))

	router := uploadRouter(NewHandler(mockFiles))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "malware.exe", "application/octet-stream"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestUpload_MissingFilePart(t *testing.T) {
	router := uploadRouter(NewHandler(new(MockFileStore)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/files/upload", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestUpload_StorageNotConfigured(t *testing.T) {
	router := uploadRouter(NewHandler(nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "photo.jpg", "image/jpeg"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORAGE_ERROR")
}
