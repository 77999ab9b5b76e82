package port

import (
	"context"
	"io"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// RecordingStorage is an interface to define the object store multipart contract.
// Implementations map "unknown upload" to domain.ErrUploadNotFound and "missing object" to domain.ErrObjectNotFound.
type RecordingStorage interface {
	InitMultipartUpload(ctx context.Context, objectKey string, contentType string, metadata map[string]string) (string, error)
	PresignPartURL(ctx context.Context, objectKey string, uploadID string, partNumber int, expiry time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, objectKey string, uploadID string, parts []domain.UploadPart) (*domain.CompletedObject, error)
	AbortMultipartUpload(ctx context.Context, objectKey string, uploadID string) error
	ListPartsPaginated(ctx context.Context, objectKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error)
	ListIncompleteUploads(ctx context.Context, prefix string) ([]domain.IncompleteUpload, error)
	StatObject(ctx context.Context, objectKey string) (*domain.StoredObject, error)
	ListObjects(ctx context.Context, prefix string) ([]domain.StoredObject, error)
	GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error)
	GetHeaderBytes(ctx context.Context, objectKey string, n int64) ([]byte, error)
	DeleteObject(ctx context.Context, objectKey string) error
	PresignDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}
