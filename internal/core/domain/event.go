package domain

import "time"

// MinIOEvent represents a MinIO bucket notification
type MinIOEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key  string `json:"key"`
				Size int64  `json:"size"`
				ETag string `json:"eTag"`
			} `json:"object"`
		} `json:"s3"`
		EventTime string `json:"eventTime"`
	} `json:"Records"`
}

// EventNameCompleteMultipartUpload is the bucket notification emitted once a multipart upload is assembled
const EventNameCompleteMultipartUpload = "s3:ObjectCreated:CompleteMultipartUpload"

// StatusKind is the kind of a recording status event
type StatusKind string

const (
	StatusRecordingStarted   StatusKind = "recording_started"
	StatusRecordingStopped   StatusKind = "recording_stopped"
	StatusRecordingAvailable StatusKind = "recording_available"
)

// RecordingStatusEvent is broadcast to the other participants of a room
type RecordingStatusEvent struct {
	Kind          StatusKind `json:"type"`
	RoomName      string     `json:"roomName"`
	RecordingID   string     `json:"recordingId"`
	HostIdentity  string     `json:"hostIdentity,omitempty"`
	HostName      string     `json:"hostName,omitempty"`
	RecordingName string     `json:"recordingName,omitempty"`
	ObjectKey     string     `json:"key,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}
