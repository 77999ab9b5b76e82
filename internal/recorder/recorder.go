package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/capture"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
	"github.com/CybraneX-team/livekit-meeting/internal/uploader"
)

// Config tunes the pipeline
type Config struct {
	EstimatedParts int
	Capture        capture.Options
	Upload         uploader.Options
}

// Result describes a finalized recording
type Result struct {
	ObjectKey         string
	Location          string
	ETag              string
	RecordingName     string
	Parts             int
	Bytes             int64
	SizeLimitExceeded bool
}

// Pipeline streams a capture session into a multipart upload
type Pipeline struct {
	device capture.Device
	api    port.SessionAPI
	writer port.PartWriter
	config Config
	logger *slog.Logger
}

// New creates a Pipeline
func New(device capture.Device, api port.SessionAPI, writer port.PartWriter, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.Capture.Logger == nil {
		cfg.Capture.Logger = logger
	}
	if cfg.Upload.Logger == nil {
		cfg.Upload.Logger = logger
	}
	return &Pipeline{
		device: device,
		api:    api,
		writer: writer,
		config: cfg,
		logger: logger,
	}
}

// Record captures until ctx is cancelled or the size ceiling is reached, then finalizes the upload.
// Cancelling ctx is the user stop, the upload itself runs to completion.
func (p *Pipeline) Record(ctx context.Context, rec domain.RecordingSession) (*Result, error) {
	logger := p.logger.With(slog.String("recordingID", rec.RecordingID), slog.String("room", rec.RoomName))
	work := context.WithoutCancel(ctx)

	session, chunks, err := capture.Start(ctx, p.device, rec, p.config.Capture)
	if err != nil {
		return nil, err
	}

	coord := uploader.New(p.api, p.writer, p.config.Upload)
	started := session.Recording()
	if _, err := coord.Initiate(work, &started, p.config.EstimatedParts); err != nil {
		go drain(chunks)
		session.Abort()
		return nil, err
	}

	for streaming := true; streaming; {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				streaming = false
				break
			}
			if len(chunk.Data) == 0 {
				continue
			}
			coord.Submit(work, chunk)
		case <-coord.Failed():
			logger.Error("part upload failed, aborting recording", slog.Any("error", coord.Err()))
			go drain(chunks)
			session.Abort()
			coord.Abort(work)
			return nil, coord.Err()
		}
	}

	name, stopErr := session.Stop(work)
	if stopErr != nil {
		logger.Warn("capture ended with an error, finalizing what was captured", slog.Any("error", stopErr))
	}
	coord.SetRecordingName(name)

	completed, err := coord.Complete(work)
	if err != nil {
		if coord.State() != domain.UploadStateAborted {
			coord.Abort(work)
		}
		if failErr := coord.Err(); failErr != nil && errors.Is(failErr, domain.ErrChunkUploadFailed) {
			return nil, failErr
		}
		return nil, fmt.Errorf("finalize recording %s: %w", rec.RecordingID, err)
	}

	progress := coord.Progress()
	result := &Result{
		ObjectKey:         coord.Session().ObjectKey,
		Location:          completed.Location,
		ETag:              completed.ETag,
		RecordingName:     name,
		Parts:             progress.PartsUploaded,
		Bytes:             progress.BytesUploaded,
		SizeLimitExceeded: session.SizeLimitExceeded(),
	}
	logger.Info("recording finalized",
		slog.String("key", result.ObjectKey),
		slog.String("name", result.RecordingName),
		slog.Int("parts", result.Parts),
		slog.Int64("bytes", result.Bytes),
		slog.Bool("sizeLimitExceeded", result.SizeLimitExceeded))
	return result, nil
}

func drain(chunks <-chan domain.Chunk) {
	for range chunks {
	}
}
