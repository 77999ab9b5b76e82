package storage

import (
	"context"
	"io"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) InitMultipartUpload(ctx context.Context, objectKey string, contentType string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, objectKey, contentType, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PresignPartURL(ctx context.Context, objectKey string, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, uploadID, partNumber, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) CompleteMultipartUpload(ctx context.Context, objectKey string, uploadID string, parts []domain.UploadPart) (*domain.CompletedObject, error) {
	args := m.Called(ctx, objectKey, uploadID, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedObject), args.Error(1)
}

func (m *MockStorage) AbortMultipartUpload(ctx context.Context, objectKey string, uploadID string) error {
	args := m.Called(ctx, objectKey, uploadID)
	return args.Error(0)
}

func (m *MockStorage) ListPartsPaginated(ctx context.Context, objectKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error) {
	args := m.Called(ctx, objectKey, uploadID, maxParts, partNumberMarker)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.UploadPart), args.Int(1), args.Error(2)
}

func (m *MockStorage) ListIncompleteUploads(ctx context.Context, prefix string) ([]domain.IncompleteUpload, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IncompleteUpload), args.Error(1)
}

func (m *MockStorage) StatObject(ctx context.Context, objectKey string) (*domain.StoredObject, error) {
	args := m.Called(ctx, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *MockStorage) ListObjects(ctx context.Context, prefix string) ([]domain.StoredObject, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredObject), args.Error(1)
}

func (m *MockStorage) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) GetHeaderBytes(ctx context.Context, objectKey string, n int64) ([]byte, error) {
	args := m.Called(ctx, objectKey, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

func (m *MockStorage) PresignDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiry)
	return args.String(0), args.Error(1)
}
