package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/client"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/notifier/livekit"
	"github.com/CybraneX-team/livekit-meeting/internal/capture"
	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
	"github.com/CybraneX-team/livekit-meeting/internal/recorder"
	"github.com/google/uuid"
)

func main() {
	userID := flag.String("user", "", "user id of the recording host")
	roomName := flag.String("room", "", "room being recorded")
	hostName := flag.String("host-name", "", "display name of the host")
	role := flag.String("role", "host", "participant role: host, co-host or participant")
	quality := flag.String("quality", "", "capture quality: low, medium or high")
	name := flag.String("name", "", "recording name, prompted at stop when empty")
	estimatedParts := flag.Int("parts", 0, "estimated number of parts, defaults to the configured value")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.LoadRecorder()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rec, err := newRecording(*userID, *roomName, *hostName, *role, *quality, *name)
	if err != nil {
		logger.Error("cannot start recording", "error", err)
		os.Exit(2)
	}
	if *estimatedParts <= 0 {
		*estimatedParts = cfg.EstimatedParts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// a second interrupt kills the process
		<-ctx.Done()
		stop()
	}()

	var notifier port.Notifier
	if cfg.LiveKit.Enabled() {
		notifier = livekit.NewNotifier(cfg.LiveKit, logger)
	} else {
		notifier = livekit.NewLogNotifier(logger)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	device := capture.NewFFmpegDevice(capture.FFmpegConfig{
		Path:        cfg.FFmpegPath,
		InputFormat: cfg.InputFormat,
		VideoInput:  cfg.VideoInput,
		AudioFormat: cfg.AudioFormat,
		AudioInput:  cfg.AudioInput,
	}, logger)

	pipeline := recorder.New(
		device,
		client.NewSessionClient(cfg.ServiceURL, httpClient, logger),
		client.NewPartWriter(httpClient, logger),
		recorder.Config{
			EstimatedParts: *estimatedParts,
			Capture: capture.Options{
				ChunkInterval: cfg.ChunkInterval,
				MaxTotalBytes: cfg.MaxTotalBytes,
				Prompter:      capture.NewLinePrompter(os.Stdin, os.Stderr),
				Notifier:      notifier,
			},
		},
		logger,
	)

	logger.Info("recording, press Ctrl+C to stop",
		"recordingID", rec.RecordingID,
		"room", rec.RoomName,
		"quality", rec.Quality)

	result, err := pipeline.Record(ctx, rec)
	if err != nil {
		logger.Error("recording failed", "error", err)
		os.Exit(1)
	}
	if result.SizeLimitExceeded {
		logger.Warn("recording was stopped at the size limit", "maxBytes", cfg.MaxTotalBytes)
	}
	fmt.Printf("%s\t%s\t%d parts\t%d bytes\n", result.RecordingName, result.ObjectKey, result.Parts, result.Bytes)
}

func newRecording(userID, roomName, hostName, role, quality, name string) (domain.RecordingSession, error) {
	if userID == "" || roomName == "" {
		return domain.RecordingSession{}, fmt.Errorf("%w: -user and -room are required", domain.ErrValidation)
	}
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		return domain.RecordingSession{}, err
	}
	if !parsedRole.CanRecord() {
		return domain.RecordingSession{}, fmt.Errorf("%w: role %s", domain.ErrNotAllowed, parsedRole)
	}
	q, err := domain.ParseQuality(quality)
	if err != nil {
		return domain.RecordingSession{}, err
	}
	if hostName == "" {
		hostName = userID
	}

	return domain.RecordingSession{
		RecordingID: uuid.NewString(),
		UserID:      userID,
		RoomName:    roomName,
		StartedAt:   time.Now().UnixMilli(),
		DisplayName: name,
		Quality:     q,
		Host:        domain.Identity{UserID: userID, Name: hostName, Role: parsedRole},
		State:       domain.RecordingStateIdle,
	}, nil
}
