package recording

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HandlerV1 is the handler for v1 recordings routes
type HandlerV1 struct {
	uploadService    port.UploadSessionService
	recordingService port.RecordingService
	logger           *slog.Logger
}

// NewRecordingHandlerV1 creates HandlerV1
func NewRecordingHandlerV1(uploadService port.UploadSessionService, recordingService port.RecordingService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService:    uploadService,
		recordingService: recordingService,
		logger:           logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Post("/multipart/initiate", h.InitiateV1)
		r.Post("/multipart/complete", h.CompleteV1)
		r.Post("/multipart/abort", h.AbortV1)
		r.Get("/multipart/status", h.StatusV1)
		r.Get("/list", h.ListV1)
		r.Delete("/delete", h.DeleteV1)
	})
	// downloads stream for as long as the body takes
	router.Get("/download", h.DownloadV1)

	return router
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *HandlerV1) writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	h.writeJSON(w, status, resp)
}

// writeServiceError maps service errors onto status codes
func (h *HandlerV1) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidObjectKey):
		h.writeError(w, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, domain.ErrNoValidParts), errors.Is(err, domain.ErrNonContiguousParts), errors.Is(err, domain.ErrDuplicatePart):
		h.writeError(w, http.StatusBadRequest, "invalid parts", err)
	case errors.Is(err, domain.ErrRecordingNotFound):
		h.writeError(w, http.StatusNotFound, "recording not found", nil)
	case errors.Is(err, domain.ErrCompletionFailed):
		h.logger.Error("error completing upload", "op", op, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to complete upload", err)
	case errors.Is(err, domain.ErrStore):
		h.logger.Error("store error", "op", op, "error", err)
		h.writeError(w, http.StatusBadGateway, "storage unavailable", err)
	default:
		h.logger.Error("unexpected error", "op", op, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}
