package domain

import "fmt"

// Quality represents the capture quality of a recording
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// DefaultQuality is the quality used when none is requested. It is never written into object keys.
const DefaultQuality = QualityMedium

// QualityProfile holds the fixed encoder settings of a quality
type QualityProfile struct {
	VideoBitrate int // bits per second
	AudioBitrate int // bits per second
	Width        int
	Height       int
	FrameRate    int
}

var qualityProfiles = map[Quality]QualityProfile{
	QualityLow:    {VideoBitrate: 1_000_000, AudioBitrate: 64_000, Width: 1280, Height: 720, FrameRate: 15},
	QualityMedium: {VideoBitrate: 2_500_000, AudioBitrate: 128_000, Width: 1920, Height: 1080, FrameRate: 30},
	QualityHigh:   {VideoBitrate: 5_000_000, AudioBitrate: 192_000, Width: 1920, Height: 1080, FrameRate: 30},
}

// ParseQuality parses a quality, empty string yields DefaultQuality
func ParseQuality(s string) (Quality, error) {
	if s == "" {
		return DefaultQuality, nil
	}
	q := Quality(s)
	if _, ok := qualityProfiles[q]; !ok {
		return "", fmt.Errorf("%w: unknown quality %q", ErrValidation, s)
	}
	return q, nil
}

// Valid reports whether q is a known quality
func (q Quality) Valid() bool {
	_, ok := qualityProfiles[q]
	return ok
}

// Profile returns the encoder profile of q, falling back to the default profile
func (q Quality) Profile() QualityProfile {
	if p, ok := qualityProfiles[q]; ok {
		return p
	}
	return qualityProfiles[DefaultQuality]
}

// BytesPerSecond is the expected storage rate of a recording at this quality
func (p QualityProfile) BytesPerSecond() int64 {
	return int64(p.VideoBitrate+p.AudioBitrate) / 8
}

// RecordingState represents the lifecycle state of a recording session
type RecordingState string

const (
	RecordingStateIdle       RecordingState = "idle"
	RecordingStateCapturing  RecordingState = "capturing"
	RecordingStateFinalizing RecordingState = "finalizing"
	RecordingStateCompleted  RecordingState = "completed"
	RecordingStateAborted    RecordingState = "aborted"
	RecordingStateFailed     RecordingState = "failed"
)

// Role is the role of a meeting participant
type Role int

const (
	RoleParticipant Role = iota
	RoleCoHost
	RoleHost
)

// ParseRole parses a participant role as carried in participant metadata
func ParseRole(s string) (Role, error) {
	switch s {
	case "host":
		return RoleHost, nil
	case "co-host", "cohost":
		return RoleCoHost, nil
	case "participant", "":
		return RoleParticipant, nil
	default:
		return RoleParticipant, fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleCoHost:
		return "co-host"
	default:
		return "participant"
	}
}

// CanRecord reports whether the role is allowed to record the room
func (r Role) CanRecord() bool {
	return r == RoleHost || r == RoleCoHost
}

// Identity identifies the participant driving a recording
type Identity struct {
	UserID string
	Name   string
	Role   Role
}

// RecordingSession is one capture-to-artifact lifecycle
type RecordingSession struct {
	RecordingID string
	UserID      string
	RoomName    string
	StartedAt   int64 // unix milliseconds
	DisplayName string
	Quality     Quality
	Host        Identity
	State       RecordingState
}

// Chunk is one unit of encoded media emitted by the capture encoder
type Chunk struct {
	Sequence int
	Data     []byte
	IsFinal  bool
}

// PartNumber returns the 1-based storage part number of the chunk
func (c Chunk) PartNumber() int {
	return c.Sequence + 1
}
