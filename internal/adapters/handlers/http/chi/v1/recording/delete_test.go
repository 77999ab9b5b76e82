package recording_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/recordings"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/uploadsession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDeleteV1(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		catalog := recordings.NewMockRecordingService()
		catalog.On("Delete", mock.Anything, testKey).Return(nil)
		h := newRouter(uploadsession.NewMockUploadSessionService(), catalog)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/recordings/delete?key="+testKey, nil))

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		catalog.AssertExpectations(t)
	})

	t.Run("error - missing key", func(t *testing.T) {
		// Arrange
		catalog := recordings.NewMockRecordingService()
		h := newRouter(uploadsession.NewMockUploadSessionService(), catalog)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/recordings/delete", nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error - not found", func(t *testing.T) {
		// Arrange
		catalog := recordings.NewMockRecordingService()
		catalog.On("Delete", mock.Anything, testKey).Return(domain.ErrRecordingNotFound)
		h := newRouter(uploadsession.NewMockUploadSessionService(), catalog)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/recordings/delete?key="+testKey, nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDownloadV1(t *testing.T) {
	t.Run("success - streams the body", func(t *testing.T) {
		// Arrange
		catalog := recordings.NewMockRecordingService()
		catalog.On("Download", mock.Anything, testKey).Return(
			io.NopCloser(strings.NewReader("webm-bytes")),
			&domain.StoredObject{Key: testKey, Size: 10, ContentType: domain.RecordingContentType},
			nil)
		h := newRouter(uploadsession.NewMockUploadSessionService(), catalog)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recordings/download?key="+testKey, nil))

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "video/webm", w.Header().Get("Content-Type"))
		assert.Equal(t, "10", w.Header().Get("Content-Length"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), testKey)
		assert.Equal(t, "webm-bytes", w.Body.String())
	})

	t.Run("error - not found", func(t *testing.T) {
		// Arrange
		catalog := recordings.NewMockRecordingService()
		catalog.On("Download", mock.Anything, testKey).Return(nil, nil, domain.ErrRecordingNotFound)
		h := newRouter(uploadsession.NewMockUploadSessionService(), catalog)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recordings/download?key="+testKey, nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
