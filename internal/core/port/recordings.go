package port

import (
	"context"
	"io"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// RecordingService exposes the catalog of finalized recordings
type RecordingService interface {
	List(ctx context.Context, filter domain.ListFilter) (*domain.RecordingPage, error)
	Delete(ctx context.Context, key string) error
	Download(ctx context.Context, key string) (io.ReadCloser, *domain.StoredObject, error)
}
