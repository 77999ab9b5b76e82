package port

import (
	"context"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// SessionAPI is the client view of the upload session service
type SessionAPI interface {
	Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.UploadSession, error)
	Complete(ctx context.Context, uploadID string, objectKey string, parts []domain.UploadPart, recordingName string) (*domain.CompletedObject, error)
	Abort(ctx context.Context, uploadID string, objectKey string) error
	Status(ctx context.Context, uploadID string, objectKey string) (*domain.UploadStatus, error)
}

// PartWriter writes one part to a presigned url and returns the part tag assigned by the store
type PartWriter interface {
	PutPart(ctx context.Context, url string, data []byte) (string, error)
}
