package port

import (
	"context"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// Notifier broadcasts recording status events to the participants of a room.
// Delivery is best-effort and unordered relative to upload progress.
type Notifier interface {
	Broadcast(ctx context.Context, event domain.RecordingStatusEvent) error
}
