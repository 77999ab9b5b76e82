package recording

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// CompletedPart is one uploaded part. Malformed entries decode to their zero value and are dropped by the service.
type CompletedPart struct {
	PartNumber int    `json:"PartNumber"`
	ETag       string `json:"ETag"`
}

func (p *CompletedPart) UnmarshalJSON(b []byte) error {
	*p = CompletedPart{}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	if n, ok := raw["PartNumber"].(float64); ok && n == math.Trunc(n) && n > 0 && n <= math.MaxInt32 {
		p.PartNumber = int(n)
	}
	if tag, ok := raw["ETag"].(string); ok {
		p.ETag = tag
	}
	return nil
}

// RecordingMetadata is optional client metadata sent at completion
type RecordingMetadata struct {
	RecordingName string `json:"recordingName,omitempty"`
	Duration      int64  `json:"duration,omitempty"`
	Quality       string `json:"quality,omitempty"`
}

// V1CompleteRequest is the request to assemble an upload
type V1CompleteRequest struct {
	UploadID          string             `json:"uploadId"`
	Key               string             `json:"key"`
	Parts             []CompletedPart    `json:"parts"`
	RecordingMetadata *RecordingMetadata `json:"recordingMetadata,omitempty"`
}

// V1CompleteResponse is the response to complete
type V1CompleteResponse struct {
	Success    bool   `json:"success"`
	Location   string `json:"location"`
	ETag       string `json:"etag"`
	Key        string `json:"key"`
	PartsCount int    `json:"partsCount"`
}

// CompleteV1 assembles the uploaded parts into the final recording
func (h *HandlerV1) CompleteV1(w http.ResponseWriter, r *http.Request) {
	var req V1CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding complete request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// the key was fixed at initiate, a late name is informational only
	if req.RecordingMetadata != nil && strings.TrimSpace(req.RecordingMetadata.RecordingName) != "" {
		h.logger.Info("recording named at stop",
			slog.String("key", req.Key),
			slog.String("recordingName", req.RecordingMetadata.RecordingName))
	}

	parts := make([]domain.UploadPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, domain.UploadPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	completed, err := h.uploadService.Complete(r.Context(), req.UploadID, req.Key, parts)
	if err != nil {
		h.writeServiceError(w, "complete", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1CompleteResponse{
		Success:    true,
		Location:   completed.Location,
		ETag:       completed.ETag,
		Key:        req.Key,
		PartsCount: completed.PartsCount,
	})
}
