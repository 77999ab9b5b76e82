package recordings

import (
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type recordingService struct {
	storage port.RecordingStorage
	cfg     config.RecordingConfig
	logger  *slog.Logger
}

// NewRecordingService creates a new recordings catalog service
func NewRecordingService(storage port.RecordingStorage, cfg config.RecordingConfig, logger *slog.Logger) port.RecordingService {
	return &recordingService{storage: storage, cfg: cfg, logger: logger}
}
