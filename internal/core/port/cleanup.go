package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	CleanupOrphanedUploads(ctx context.Context, now time.Time) (int, error)
}

// Locker is a distributed lock held by a single replica at a time
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name string) error
}
