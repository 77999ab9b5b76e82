package recordings

import (
	"context"
	"io"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockRecordingService is a mock implementation of RecordingService
type MockRecordingService struct {
	mock.Mock
}

// NewMockRecordingService creates a new MockRecordingService
func NewMockRecordingService() *MockRecordingService {
	return &MockRecordingService{}
}

func (m *MockRecordingService) List(ctx context.Context, filter domain.ListFilter) (*domain.RecordingPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordingPage), args.Error(1)
}

func (m *MockRecordingService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRecordingService) Download(ctx context.Context, key string) (io.ReadCloser, *domain.StoredObject, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*domain.StoredObject), args.Error(2)
}
