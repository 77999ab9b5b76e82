package recording

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Timestamp accepts unix milliseconds as a JSON number or a numeric string
type Timestamp int64

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*t = 0
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*t = Timestamp(v)
	return nil
}

// V1InitiateRequest is the request to open an upload session
type V1InitiateRequest struct {
	UserID         string    `json:"userId"`
	RoomName       string    `json:"roomName"`
	Timestamp      Timestamp `json:"timestamp"`
	RecordingID    string    `json:"recordingId"`
	RecordingName  string    `json:"recordingName,omitempty"`
	EstimatedParts int       `json:"estimatedParts,omitempty"`
	Quality        string    `json:"quality,omitempty"`
}

// V1UploadConfig is the upload tuning handed to the recorder, retryDelay is in milliseconds
type V1UploadConfig struct {
	ChunkSize  int64 `json:"chunkSize"`
	MaxRetries int   `json:"maxRetries"`
	RetryDelay int64 `json:"retryDelay"`
}

// V1InitiateResponse is the response to initiate
type V1InitiateResponse struct {
	Success       bool           `json:"success"`
	UploadID      string         `json:"uploadId"`
	Key           string         `json:"key"`
	PresignedURLs []string       `json:"presignedUrls"`
	MaxParts      int            `json:"maxParts"`
	UploadConfig  V1UploadConfig `json:"uploadConfig"`
}

// InitiateV1 opens a multipart upload for a recording
func (h *HandlerV1) InitiateV1(w http.ResponseWriter, r *http.Request) {
	var req V1InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding initiate request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.uploadService.Initiate(r.Context(), domain.InitiateRequest{
		UserID:         req.UserID,
		RoomName:       req.RoomName,
		Timestamp:      int64(req.Timestamp),
		RecordingID:    req.RecordingID,
		RecordingName:  req.RecordingName,
		EstimatedParts: req.EstimatedParts,
		Quality:        req.Quality,
	})
	if err != nil {
		h.writeServiceError(w, "initiate", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1InitiateResponse{
		Success:       true,
		UploadID:      result.UploadID,
		Key:           result.ObjectKey,
		PresignedURLs: result.PresignedURLs,
		MaxParts:      result.MaxParts,
		UploadConfig: V1UploadConfig{
			ChunkSize:  result.Config.ChunkSize,
			MaxRetries: result.Config.MaxRetries,
			RetryDelay: result.Config.RetryDelay.Milliseconds(),
		},
	})
}
