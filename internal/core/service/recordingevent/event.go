package recordingevent

import (
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
)

// sniffLength is the header size inspected to confirm the container format
const sniffLength = 512

type recordingEventService struct {
	storage  port.RecordingStorage
	notifier port.Notifier
	logger   *slog.Logger
}

// NewRecordingEventService creates a new bucket notification handler
func NewRecordingEventService(storage port.RecordingStorage, notifier port.Notifier, logger *slog.Logger) port.MessageService {
	return &recordingEventService{
		storage:  storage,
		notifier: notifier,
		logger:   logger,
	}
}
