package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/eventbroker/nats"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/notifier/livekit"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/storage/minio"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/storage/s3"
	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/recordingevent"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	// Room notifications go through LiveKit when configured
	var notifier port.Notifier
	if cfg.LiveKit.Enabled() {
		notifier = livekit.NewNotifier(cfg.LiveKit, logger)
		logger.Info("livekit notifier initialized", "url", cfg.LiveKit.URL)
	} else {
		notifier = livekit.NewLogNotifier(logger)
		logger.Warn("livekit not configured, status events are only logged")
	}

	eventService := recordingevent.NewRecordingEventService(storage, notifier, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.EnsureStream(ctx); err != nil {
		logger.Error("failed to ensure NATS stream", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, eventService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down recording events service")

	// Close waits for the in-flight message
	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	logger.Info("recording events service shutdown complete")
}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.RecordingStorage, error) {
	switch cfg.Storage.Driver {
	case "minio":
		adapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	case "s3":
		adapter, err := s3.NewAdapter(ctx, cfg.S3, logger)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
