package uploadsession

import (
	"context"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockUploadSessionService is a mock implementation of UploadSessionService
type MockUploadSessionService struct {
	mock.Mock
}

// NewMockUploadSessionService creates a new MockUploadSessionService
func NewMockUploadSessionService() *MockUploadSessionService {
	return &MockUploadSessionService{}
}

func (m *MockUploadSessionService) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.InitiateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InitiateResult), args.Error(1)
}

func (m *MockUploadSessionService) Complete(ctx context.Context, uploadID string, objectKey string, parts []domain.UploadPart) (*domain.CompletedObject, error) {
	args := m.Called(ctx, uploadID, objectKey, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedObject), args.Error(1)
}

func (m *MockUploadSessionService) Abort(ctx context.Context, uploadID string, objectKey string) (bool, error) {
	args := m.Called(ctx, uploadID, objectKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionService) Status(ctx context.Context, uploadID string, objectKey string, estimatedParts int) (*domain.UploadStatus, error) {
	args := m.Called(ctx, uploadID, objectKey, estimatedParts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadStatus), args.Error(1)
}
