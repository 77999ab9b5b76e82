package recording

import (
	"net/http"
	"strconv"
	"time"
)

// V1StatusResponse is the response to status
type V1StatusResponse struct {
	Success       bool      `json:"success"`
	Status        string    `json:"status"`
	UploadID      string    `json:"uploadId"`
	Key           string    `json:"key"`
	PartsUploaded int       `json:"partsUploaded"`
	TotalSize     int64     `json:"totalSize"`
	Progress      float64   `json:"progress"`
	LastUpdated   time.Time `json:"lastUpdated,omitzero"`
}

// StatusV1 reports how far an upload got
func (h *HandlerV1) StatusV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	uploadID := query.Get("uploadId")
	key := query.Get("key")

	estimatedParts := 0
	if raw := query.Get("estimatedParts"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "estimatedParts must be a positive integer", nil)
			return
		}
		estimatedParts = n
	}

	status, err := h.uploadService.Status(r.Context(), uploadID, key, estimatedParts)
	if err != nil {
		h.writeServiceError(w, "status", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1StatusResponse{
		Success:       true,
		Status:        string(status.State),
		UploadID:      uploadID,
		Key:           key,
		PartsUploaded: status.PartsUploaded,
		TotalSize:     status.TotalBytes,
		Progress:      status.Progress,
		LastUpdated:   status.UpdatedAt,
	})
}
