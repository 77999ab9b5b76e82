package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/handlers/http/chi"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/handlers/http/chi/v1/recording"
	lockredis "github.com/CybraneX-team/livekit-meeting/internal/adapters/lock/redis"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/storage/minio"
	"github.com/CybraneX-team/livekit-meeting/internal/adapters/storage/s3"
	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/cleanup"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/recordings"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/uploadsession"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//storage
	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("storage initialized", "driver", cfg.Storage.Driver)

	//janitor lock, a single replica without redis runs unlocked
	var locker port.Locker
	if cfg.Redis.Addr != "" {
		redisClient, err := lockredis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis", "error", err)
			}
		}()
		locker = lockredis.NewLocker(redisClient, logger)
	}

	uploadService := uploadsession.NewUploadSessionService(storage, cfg.Recording, logger)
	recordingService := recordings.NewRecordingService(storage, cfg.Recording, logger)
	cleanupService := cleanup.NewCleanupService(storage, locker, cfg.Cleanup, logger)

	//http
	recordingHandler := recording.NewRecordingHandlerV1(uploadService, recordingService, logger)

	router := chi.NewRouter(logger, recordingHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init orphan janitor
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Cleanup.Every, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

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

func initCleanupTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			aborted, err := service.CleanupOrphanedUploads(ctx, time.Now())
			if err != nil {
				logger.Error("failed to cleanup orphaned uploads", "error", err)
			} else {
				logger.Info("cleanup task completed successfully", "aborted", aborted)
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
