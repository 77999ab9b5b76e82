package uploadsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

const maxUploadingProgress = 95.0

// Status inspects the store for the state of an upload. It is diagnostic only.
func (s *uploadSessionService) Status(ctx context.Context, uploadID string, objectKey string, estimatedParts int) (*domain.UploadStatus, error) {
	if err := validateHandle(uploadID, objectKey); err != nil {
		return nil, err
	}
	if estimatedParts <= 0 {
		estimatedParts = s.cfg.DefaultEstimatedParts
	}

	parts, err := s.listAllParts(ctx, objectKey, uploadID)
	if err == nil {
		var total int64
		for _, p := range parts {
			total += p.Size
		}
		progress := float64(len(parts)) / float64(estimatedParts) * 100
		return &domain.UploadStatus{
			State:         domain.UploadStateUploading,
			PartsUploaded: len(parts),
			TotalBytes:    total,
			Progress:      min(progress, maxUploadingProgress),
			UpdatedAt:     time.Now(),
		}, nil
	}
	s.logger.Debug("list parts failed, probing final object",
		slog.String("objectKey", objectKey),
		slog.Any("error", err))

	obj, err := s.storage.StatObject(ctx, objectKey)
	switch {
	case errors.Is(err, domain.ErrObjectNotFound):
		return &domain.UploadStatus{
			State:     domain.UploadStateAborted,
			UpdatedAt: time.Now(),
		}, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return &domain.UploadStatus{
		State:      domain.UploadStateCompleted,
		TotalBytes: obj.Size,
		Progress:   100,
		UpdatedAt:  obj.LastModified,
	}, nil
}

func (s *uploadSessionService) listAllParts(ctx context.Context, objectKey string, uploadID string) ([]domain.UploadPart, error) {
	var all []domain.UploadPart
	marker := 0
	for {
		parts, next, err := s.storage.ListPartsPaginated(ctx, objectKey, uploadID, 1000, marker)
		if err != nil {
			return nil, err
		}
		all = append(all, parts...)
		if next == 0 {
			return all, nil
		}
		marker = next
	}
}
