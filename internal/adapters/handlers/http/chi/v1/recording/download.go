package recording

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// DownloadV1 streams a finalized recording as an attachment
func (h *HandlerV1) DownloadV1(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "key is required", nil)
		return
	}

	body, info, err := h.recordingService.Download(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, "download", err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", info.ContentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("download interrupted", "key", key, "error", err)
	}
}
