package client

import (
	"context"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockSessionAPI is a mock implementation of SessionAPI
type MockSessionAPI struct {
	mock.Mock
}

// NewMockSessionAPI creates a new MockSessionAPI
func NewMockSessionAPI() *MockSessionAPI {
	return &MockSessionAPI{}
}

func (m *MockSessionAPI) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.UploadSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockSessionAPI) Complete(ctx context.Context, uploadID string, objectKey string, parts []domain.UploadPart, recordingName string) (*domain.CompletedObject, error) {
	args := m.Called(ctx, uploadID, objectKey, parts, recordingName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedObject), args.Error(1)
}

func (m *MockSessionAPI) Abort(ctx context.Context, uploadID string, objectKey string) error {
	args := m.Called(ctx, uploadID, objectKey)
	return args.Error(0)
}

func (m *MockSessionAPI) Status(ctx context.Context, uploadID string, objectKey string) (*domain.UploadStatus, error) {
	args := m.Called(ctx, uploadID, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadStatus), args.Error(1)
}

// MockPartWriter is a mock implementation of PartWriter
type MockPartWriter struct {
	mock.Mock
}

// NewMockPartWriter creates a new MockPartWriter
func NewMockPartWriter() *MockPartWriter {
	return &MockPartWriter{}
}

func (m *MockPartWriter) PutPart(ctx context.Context, url string, data []byte) (string, error) {
	args := m.Called(ctx, url, data)
	return args.String(0), args.Error(1)
}
