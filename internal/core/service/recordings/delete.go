package recordings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Delete removes a finalized recording
func (r *recordingService) Delete(ctx context.Context, key string) error {
	if _, err := r.statRecording(ctx, key); err != nil {
		return err
	}
	if err := r.storage.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	r.logger.Info("recording deleted", slog.String("key", key))
	return nil
}

func (r *recordingService) statRecording(ctx context.Context, key string) (*domain.StoredObject, error) {
	if _, err := domain.ParseObjectKey(key); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	info, err := r.storage.StatObject(ctx, key)
	switch {
	case errors.Is(err, domain.ErrObjectNotFound):
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordingNotFound, key)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return info, nil
}
