package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecordingExtension is the extension of every finalized recording
const RecordingExtension = ".webm"

// RecordingContentType is the content type of every finalized recording
const RecordingContentType = "video/webm"

var (
	keySegmentRegexp = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	objectKeyRegexp  = regexp.MustCompile(`^([A-Za-z0-9-]+)_([A-Za-z0-9-]+)_(\d+)_([A-Za-z0-9-]+)(?:_(low|medium|high))?(?:__([A-Za-z0-9_-]+))?\.webm$`)
)

// ObjectKeyParts are the fields encoded in a recording object key
type ObjectKeyParts struct {
	UserID        string
	RoomName      string
	Timestamp     int64
	RecordingID   string
	Quality       Quality
	RecordingName string
}

// ValidKeySegment reports whether s can be used as an identity segment of an object key
func ValidKeySegment(s string) bool {
	return keySegmentRegexp.MatchString(s)
}

// SanitizeName replaces every byte outside [A-Za-z0-9_-] with '_'
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// BuildObjectKey computes the deterministic storage key of a recording:
// {userId}_{roomName}_{timestamp}_{recordingId}[_{quality}][__{sanitizedName}].webm
func BuildObjectKey(p ObjectKeyParts) (string, error) {
	for field, v := range map[string]string{"userId": p.UserID, "roomName": p.RoomName, "recordingId": p.RecordingID} {
		if !ValidKeySegment(v) {
			return "", fmt.Errorf("%w: %s must match [A-Za-z0-9-]+", ErrValidation, field)
		}
	}
	if p.Timestamp <= 0 {
		return "", fmt.Errorf("%w: timestamp must be positive", ErrValidation)
	}
	quality := p.Quality
	if quality == "" {
		quality = DefaultQuality
	}
	if !quality.Valid() {
		return "", fmt.Errorf("%w: unknown quality %q", ErrValidation, quality)
	}

	var b strings.Builder
	b.WriteString(p.UserID)
	b.WriteByte('_')
	b.WriteString(p.RoomName)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(p.Timestamp, 10))
	b.WriteByte('_')
	b.WriteString(p.RecordingID)
	if quality != DefaultQuality {
		b.WriteByte('_')
		b.WriteString(string(quality))
	}
	if p.RecordingName != "" {
		b.WriteString("__")
		b.WriteString(SanitizeName(p.RecordingName))
	}
	b.WriteString(RecordingExtension)
	return b.String(), nil
}

// ParseObjectKey recovers the fields of a key built by BuildObjectKey.
// The recovered RecordingName is the sanitized name.
func ParseObjectKey(key string) (*ObjectKeyParts, error) {
	m := objectKeyRegexp.FindStringSubmatch(key)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidObjectKey, key)
	}
	ts, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidObjectKey, key, err)
	}
	quality := DefaultQuality
	if m[5] != "" {
		quality = Quality(m[5])
	}
	return &ObjectKeyParts{
		UserID:        m[1],
		RoomName:      m[2],
		Timestamp:     ts,
		RecordingID:   m[4],
		Quality:       quality,
		RecordingName: m[6],
	}, nil
}
