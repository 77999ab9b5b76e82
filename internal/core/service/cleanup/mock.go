package cleanup

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLocker is a mock implementation of Locker
type MockLocker struct {
	mock.Mock
}

// NewMockLocker creates a new MockLocker
func NewMockLocker() *MockLocker {
	return &MockLocker{}
}

func (m *MockLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Unlock(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
