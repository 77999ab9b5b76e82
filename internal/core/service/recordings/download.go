package recordings

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Download opens the body of a finalized recording, the caller closes it
func (r *recordingService) Download(ctx context.Context, key string) (io.ReadCloser, *domain.StoredObject, error) {
	info, err := r.statRecording(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	body, err := r.storage.GetObject(ctx, key)
	switch {
	case errors.Is(err, domain.ErrObjectNotFound):
		return nil, nil, domain.ErrRecordingNotFound
	case err != nil:
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if info.ContentType == "" {
		info.ContentType = domain.RecordingContentType
	}
	return body, info, nil
}
