package notifier

import (
	"context"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Broadcast(ctx context.Context, event domain.RecordingStatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
