package port

import (
	"context"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// UploadSessionService is the server-side authority over recording multipart sessions
type UploadSessionService interface {
	Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.InitiateResult, error)
	Complete(ctx context.Context, uploadID string, objectKey string, parts []domain.UploadPart) (*domain.CompletedObject, error)
	Abort(ctx context.Context, uploadID string, objectKey string) (bool, error)
	Status(ctx context.Context, uploadID string, objectKey string, estimatedParts int) (*domain.UploadStatus, error)
}
