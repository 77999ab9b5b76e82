package recording_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/handlers/http/chi"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/handlers/http/chi/v1/recording"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/recordings"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/uploadsession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey      = "u1_roomA_1700000000000_rec1.webm"
	testUploadID = "upload-1"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(uploads *uploadsession.MockUploadSessionService, catalog *recordings.MockRecordingService) http.Handler {
	handler := recording.NewRecordingHandlerV1(uploads, catalog, discardLogger)
	return chi.NewRouter(discardLogger, handler, "")
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) recording.ErrorResponse {
	t.Helper()
	var resp recording.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	// Arrange
	h := newRouter(uploadsession.NewMockUploadSessionService(), recordings.NewMockRecordingService())
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var resp chi.HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}
