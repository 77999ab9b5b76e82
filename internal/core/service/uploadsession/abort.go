package uploadsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Abort releases a multipart upload. An upload the store no longer knows is reported
// as already gone instead of an error.
func (s *uploadSessionService) Abort(ctx context.Context, uploadID string, objectKey string) (bool, error) {
	if err := validateHandle(uploadID, objectKey); err != nil {
		return false, err
	}

	err := s.storage.AbortMultipartUpload(ctx, objectKey, uploadID)
	switch {
	case errors.Is(err, domain.ErrUploadNotFound):
		s.logger.Warn("abort of unknown multipart upload",
			slog.String("objectKey", objectKey),
			slog.String("uploadID", uploadID))
		return true, nil
	case err != nil:
		return false, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return false, nil
}
