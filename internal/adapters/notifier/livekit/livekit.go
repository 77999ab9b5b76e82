package livekit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
)

// dataSender is the subset of the room service used to reach participants
type dataSender interface {
	SendData(ctx context.Context, req *livekit.SendDataRequest) (*livekit.SendDataResponse, error)
}

// Notifier broadcasts recording status events on the room data channel
type Notifier struct {
	sender dataSender
	logger *slog.Logger
}

// NewNotifier creates a Notifier backed by the LiveKit room service
func NewNotifier(cfg config.LiveKitConfig, logger *slog.Logger) *Notifier {
	client := lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret)
	return newNotifier(client, logger)
}

func newNotifier(sender dataSender, logger *slog.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger}
}

// Broadcast sends the event to every participant of the event's room
func (n *Notifier) Broadcast(ctx context.Context, event domain.RecordingStatusEvent) error {
	if event.RoomName == "" {
		return fmt.Errorf("%w: room name is required", domain.ErrValidation)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	_, err = n.sender.SendData(ctx, &livekit.SendDataRequest{
		Room: event.RoomName,
		Data: payload,
		Kind: livekit.DataPacket_RELIABLE,
	})
	if err != nil {
		return fmt.Errorf("send data to room %s: %w", event.RoomName, err)
	}

	n.logger.Debug("status event broadcast",
		slog.String("room", event.RoomName),
		slog.String("type", string(event.Kind)),
		slog.String("recordingID", event.RecordingID))
	return nil
}

// LogNotifier only logs status events, used when LiveKit is not configured
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Broadcast(_ context.Context, event domain.RecordingStatusEvent) error {
	n.logger.Info("recording status",
		slog.String("room", event.RoomName),
		slog.String("type", string(event.Kind)),
		slog.String("recordingID", event.RecordingID))
	return nil
}
