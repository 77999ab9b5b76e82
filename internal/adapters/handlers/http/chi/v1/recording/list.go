package recording

import (
	"net/http"
	"strconv"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// V1Recording is one finalized recording, estimatedDuration is in seconds
type V1Recording struct {
	Key               string    `json:"key"`
	URL               string    `json:"url"`
	UserID            string    `json:"userId"`
	RoomName          string    `json:"roomName"`
	Timestamp         int64     `json:"timestamp"`
	RecordingID       string    `json:"recordingId"`
	Quality           string    `json:"quality"`
	RecordingName     string    `json:"recordingName,omitempty"`
	Size              int64     `json:"size"`
	LastModified      time.Time `json:"lastModified"`
	EstimatedDuration int64     `json:"estimatedDuration"`
}

// V1Pagination describes the returned page
type V1Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// V1Summary aggregates the filtered catalog
type V1Summary struct {
	TotalRecordings int   `json:"totalRecordings"`
	TotalSize       int64 `json:"totalSize"`
	UniqueUsers     int   `json:"uniqueUsers"`
	UniqueRooms     int   `json:"uniqueRooms"`
}

// V1ListResponse is the response to list
type V1ListResponse struct {
	Success    bool          `json:"success"`
	Recordings []V1Recording `json:"recordings"`
	Pagination V1Pagination  `json:"pagination"`
	Summary    V1Summary     `json:"summary"`
}

// ListV1 lists finalized recordings
func (h *HandlerV1) ListV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ListFilter{
		UserID:    query.Get("userId"),
		RoomName:  query.Get("roomName"),
		SortBy:    domain.SortField(query.Get("sortBy")),
		SortOrder: domain.SortOrder(query.Get("sortOrder")),
	}

	var ok bool
	if filter.Limit, ok = intParam(query.Get("limit")); !ok {
		h.writeError(w, http.StatusBadRequest, "limit must be an integer", nil)
		return
	}
	if filter.Offset, ok = intParam(query.Get("offset")); !ok {
		h.writeError(w, http.StatusBadRequest, "offset must be an integer", nil)
		return
	}

	page, err := h.recordingService.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, "list", err)
		return
	}

	resp := V1ListResponse{
		Success:    true,
		Recordings: make([]V1Recording, 0, len(page.Recordings)),
		Pagination: V1Pagination{
			Total:   page.Pagination.Total,
			Limit:   page.Pagination.Limit,
			Offset:  page.Pagination.Offset,
			HasMore: page.Pagination.HasMore,
		},
		Summary: V1Summary{
			TotalRecordings: page.Summary.TotalRecordings,
			TotalSize:       page.Summary.TotalSize,
			UniqueUsers:     page.Summary.UniqueUsers,
			UniqueRooms:     page.Summary.UniqueRooms,
		},
	}
	for _, rec := range page.Recordings {
		resp.Recordings = append(resp.Recordings, V1Recording{
			Key:               rec.Key,
			URL:               rec.URL,
			UserID:            rec.UserID,
			RoomName:          rec.RoomName,
			Timestamp:         rec.Timestamp,
			RecordingID:       rec.RecordingID,
			Quality:           string(rec.Quality),
			RecordingName:     rec.RecordingName,
			Size:              rec.Size,
			LastModified:      rec.LastModified,
			EstimatedDuration: int64(rec.EstimatedDuration / time.Second),
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// intParam parses an optional integer query parameter, empty yields 0
func intParam(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
