package recordingevent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

func (s *recordingEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.MinIOEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal bucket event: %v", err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("no records in bucket event")
	}

	for _, record := range event.Records {
		if record.EventName != domain.EventNameCompleteMultipartUpload {
			s.logger.Debug("ignoring bucket event", "eventtype", record.EventName)
			continue
		}

		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return err
		}
		parts, err := domain.ParseObjectKey(key)
		if err != nil {
			s.logger.Debug("ignoring non recording object", "key", key)
			continue
		}

		s.logger.Info("handling event", "eventtype", record.EventName, "key", key, "recordingID", parts.RecordingID)

		header, err := s.storage.GetHeaderBytes(ctx, key, sniffLength)
		if err != nil {
			return err
		}
		if detected := http.DetectContentType(header); detected != domain.RecordingContentType {
			return fmt.Errorf("%w: %s is %s", domain.ErrContentTypeMismatch, key, detected)
		}

		status := domain.RecordingStatusEvent{
			Kind:          domain.StatusRecordingAvailable,
			RoomName:      parts.RoomName,
			RecordingID:   parts.RecordingID,
			HostIdentity:  parts.UserID,
			RecordingName: parts.RecordingName,
			ObjectKey:     key,
			Timestamp:     time.Now().UTC(),
		}
		if err := s.notifier.Broadcast(ctx, status); err != nil {
			s.logger.Warn("failed to broadcast recording availability", "key", key, "error", err)
		}
	}
	return nil
}
