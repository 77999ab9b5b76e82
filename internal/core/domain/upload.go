package domain

import (
	"sort"
	"time"
)

// UploadState represents the state of a multipart upload session
type UploadState string

const (
	UploadStateIdle       UploadState = "idle"
	UploadStateInitiating UploadState = "initiating"
	UploadStateUploading  UploadState = "uploading"
	UploadStateFinalizing UploadState = "finalizing"
	UploadStateCompleted  UploadState = "completed"
	UploadStateFailed     UploadState = "failed"
	UploadStateAborting   UploadState = "aborting"
	UploadStateAborted    UploadState = "aborted"
)

// Terminal reports whether no further part upload may happen in this state
func (s UploadState) Terminal() bool {
	switch s {
	case UploadStateFinalizing, UploadStateCompleted, UploadStateFailed, UploadStateAborting, UploadStateAborted:
		return true
	}
	return false
}

const (
	// MinEstimatedParts is the smallest accepted estimated part count
	MinEstimatedParts = 1
	// MaxEstimatedParts bounds the presigned urls issued per upload
	MaxEstimatedParts = 100
	// MinPartSize is the store floor for every part but the last
	MinPartSize = 5 << 20
)

// UploadConfig is the client-side upload tuning returned at initiate time
type UploadConfig struct {
	ChunkSize  int64
	MaxRetries int
	RetryDelay time.Duration
}

// UploadSession is the multipart-upload binding of one recording
type UploadSession struct {
	UploadID  string
	ObjectKey string
	PartURLs  []string
	MaxParts  int
	Config    UploadConfig
}

// PartURL returns the presigned url of a 1-based part number
func (s *UploadSession) PartURL(partNumber int) (string, bool) {
	if partNumber < 1 || partNumber > len(s.PartURLs) {
		return "", false
	}
	return s.PartURLs[partNumber-1], true
}

// UploadPart represents an upload part (chunk)
type UploadPart struct {
	PartNumber int
	ETag       string
	Size       int64
}

// SortParts sorts parts ascending by part number
func SortParts(parts []UploadPart) {
	sort.Slice(parts, func(i, j int) bool {
		return parts[i].PartNumber < parts[j].PartNumber
	})
}

// Contiguous reports whether sorted parts are numbered 1..n without gaps
func Contiguous(sorted []UploadPart) bool {
	for i, p := range sorted {
		if p.PartNumber != i+1 {
			return false
		}
	}
	return true
}

// InitiateRequest is the request to open an upload session
type InitiateRequest struct {
	UserID         string `validate:"required,keysegment"`
	RoomName       string `validate:"required,keysegment"`
	Timestamp      int64  `validate:"required,gt=0"`
	RecordingID    string `validate:"required,keysegment"`
	RecordingName  string `validate:"max=200"`
	EstimatedParts int    `validate:"omitempty,min=1,max=100"`
	Quality        string `validate:"omitempty,oneof=low medium high"`
}

// InitiateResult is the outcome of opening an upload session
type InitiateResult struct {
	UploadID      string
	ObjectKey     string
	PresignedURLs []string
	MaxParts      int
	Config        UploadConfig
}

// CompletedObject is the finalized recording returned by the store
type CompletedObject struct {
	Location   string
	ETag       string
	PartsCount int
}

// UploadStatus is a best-effort introspection of an upload session
type UploadStatus struct {
	State         UploadState
	PartsUploaded int
	TotalBytes    int64
	Progress      float64
	UpdatedAt     time.Time
}

// Progress is the client-side view of an upload in flight
type Progress struct {
	State         UploadState
	PartsUploaded int
	BytesUploaded int64
	InFlight      int
}
