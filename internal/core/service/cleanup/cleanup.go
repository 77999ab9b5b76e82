package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
)

const lockName = "recordings:orphan-janitor"

type cleanupService struct {
	storage port.RecordingStorage
	locker  port.Locker
	cfg     config.CleanupConfig
	logger  *slog.Logger
}

// NewCleanupService creates a new cleanup service. A nil locker runs unguarded, fine for a single replica.
func NewCleanupService(storage port.RecordingStorage, locker port.Locker, cfg config.CleanupConfig, logger *slog.Logger) port.CleanupService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &cleanupService{
		storage: storage,
		locker:  locker,
		cfg:     cfg,
		logger:  logger,
	}
}

type noopLocker struct{}

func (noopLocker) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (noopLocker) Unlock(context.Context, string) error { return nil }
