package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// CleanupOrphanedUploads aborts recording uploads initiated before now minus the orphan TTL.
// It returns the number of aborted uploads.
func (c *cleanupService) CleanupOrphanedUploads(ctx context.Context, now time.Time) (int, error) {
	locked, err := c.locker.TryLock(ctx, lockName, c.cfg.LockTTL)
	if err != nil {
		return 0, fmt.Errorf("acquire janitor lock: %w", err)
	}
	if !locked {
		c.logger.Debug("janitor lock held elsewhere, skipping run")
		return 0, nil
	}
	defer func() {
		if unlockErr := c.locker.Unlock(context.WithoutCancel(ctx), lockName); unlockErr != nil {
			c.logger.Warn("failed to release janitor lock", "err", unlockErr)
		}
	}()

	uploads, err := c.storage.ListIncompleteUploads(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	cutoff := now.Add(-c.cfg.OrphanTTL)
	aborted := 0
	for _, upload := range uploads {
		if !upload.Initiated.Before(cutoff) {
			continue
		}
		if _, parseErr := domain.ParseObjectKey(upload.Key); parseErr != nil {
			continue
		}

		abortErr := c.storage.AbortMultipartUpload(ctx, upload.Key, upload.UploadID)
		if abortErr != nil && !errors.Is(abortErr, domain.ErrUploadNotFound) {
			c.logger.Error("Failed to abort orphaned upload",
				slog.String("objectKey", upload.Key),
				slog.String("uploadID", upload.UploadID),
				"err", abortErr)
			continue
		}
		aborted++
	}

	c.logger.Info("orphaned uploads cleanup completed",
		slog.Int("candidates", len(uploads)),
		slog.Int("aborted", aborted))
	return aborted, nil
}
