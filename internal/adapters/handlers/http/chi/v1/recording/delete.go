package recording

import (
	"net/http"
)

// V1DeleteResponse is the response to delete
type V1DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

// DeleteV1 deletes a finalized recording
func (h *HandlerV1) DeleteV1(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "key is required", nil)
		return
	}

	if err := h.recordingService.Delete(r.Context(), key); err != nil {
		h.writeServiceError(w, "delete", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1DeleteResponse{
		Success: true,
		Message: "recording deleted",
		Key:     key,
	})
}
