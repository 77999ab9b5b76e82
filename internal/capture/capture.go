package capture

import (
	"context"
	"log/slog"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
)

// DefaultChunkInterval keeps each non-final chunk above the store part floor at every quality
const DefaultChunkInterval = 3 * time.Minute

// Encoder produces encoded media from an open capture source
type Encoder interface {
	// Flush returns the bytes encoded since the previous flush
	Flush() ([]byte, error)
	// Stop terminates the encoder, releases the source and returns the remaining bytes
	Stop() ([]byte, error)
}

// Device opens a capture source encoding at the given profile
type Device interface {
	Open(ctx context.Context, profile domain.QualityProfile) (Encoder, error)
}

// Prompter asks the user for a recording name
type Prompter interface {
	PromptName(ctx context.Context) (string, error)
}

// Options tunes a capture session
type Options struct {
	ChunkInterval time.Duration
	// MaxTotalBytes force-stops the capture once exceeded, zero disables the ceiling
	MaxTotalBytes int64
	Prompter      Prompter
	Notifier      port.Notifier
	Logger        *slog.Logger

	newTicker func(time.Duration) (<-chan time.Time, func())
}

func (o Options) withDefaults() Options {
	if o.ChunkInterval <= 0 {
		o.ChunkInterval = DefaultChunkInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.newTicker == nil {
		o.newTicker = func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		}
	}
	return o
}
