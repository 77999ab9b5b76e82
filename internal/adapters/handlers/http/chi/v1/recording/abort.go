package recording

import (
	"encoding/json"
	"net/http"
)

// V1AbortRequest is the request to abort an upload
type V1AbortRequest struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// V1AbortResponse is the response to abort
type V1AbortResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	AlreadyAborted bool   `json:"alreadyAborted,omitempty"`
}

// AbortV1 aborts a multipart upload, aborting an unknown upload succeeds
func (h *HandlerV1) AbortV1(w http.ResponseWriter, r *http.Request) {
	var req V1AbortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding abort request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	alreadyAborted, err := h.uploadService.Abort(r.Context(), req.UploadID, req.Key)
	if err != nil {
		h.writeServiceError(w, "abort", err)
		return
	}

	msg := "upload aborted"
	if alreadyAborted {
		msg = "upload was already aborted or completed"
	}
	h.writeJSON(w, http.StatusOK, V1AbortResponse{
		Success:        true,
		Message:        msg,
		AlreadyAborted: alreadyAborted,
	})
}
