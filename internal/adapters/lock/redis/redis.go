package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:"

// unlockScript deletes the lock only while it still carries our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-instance redis lock (SET NX PX)
type Locker struct {
	client *redis.Client
	token  string
	logger *slog.Logger
}

// NewClient creates a Redis client and verifies connectivity
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis client connected", slog.String("addr", cfg.Addr))
	return rdb, nil
}

// NewLocker returns a Locker owning a fresh token
func NewLocker(client *redis.Client, logger *slog.Logger) *Locker {
	return &Locker{client: client, token: uuid.NewString(), logger: logger}
}

// TryLock acquires name for ttl without blocking
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, keyPrefix+name, l.token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Unlock releases name if this locker still holds it
func (l *Locker) Unlock(ctx context.Context, name string) error {
	released, err := unlockScript.Run(ctx, l.client, []string{keyPrefix + name}, l.token).Int()
	if err != nil {
		return fmt.Errorf("redis unlock: %w", err)
	}
	if released == 0 {
		l.logger.Warn("lock was not held at release", slog.String("name", name))
	}
	return nil
}
