package uploader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Initiate opens the upload session of a recording, estimatedParts is clamped to [1, 100]
func (c *Coordinator) Initiate(ctx context.Context, rec *domain.RecordingSession, estimatedParts int) (*domain.UploadSession, error) {
	c.mu.Lock()
	if c.state != domain.UploadStateIdle {
		c.mu.Unlock()
		return nil, wrapInitiation(fmt.Errorf("%w: upload already %s", domain.ErrSessionTerminal, c.state))
	}
	c.state = domain.UploadStateInitiating
	c.recordingName = rec.DisplayName
	c.mu.Unlock()

	quality := ""
	if rec.Quality != "" && rec.Quality != domain.DefaultQuality {
		quality = string(rec.Quality)
	}

	session, err := c.api.Initiate(ctx, domain.InitiateRequest{
		UserID:         rec.UserID,
		RoomName:       rec.RoomName,
		Timestamp:      rec.StartedAt,
		RecordingID:    rec.RecordingID,
		RecordingName:  rec.DisplayName,
		EstimatedParts: clampParts(estimatedParts),
		Quality:        quality,
	})
	if err != nil {
		c.mu.Lock()
		c.state = domain.UploadStateFailed
		c.mu.Unlock()
		c.logger.Error("failed to initiate upload", slog.String("recordingID", rec.RecordingID), slog.Any("error", err))
		return nil, wrapInitiation(err)
	}

	c.mu.Lock()
	c.session = session
	c.state = domain.UploadStateUploading
	c.mu.Unlock()

	c.logger.Info("upload initiated",
		slog.String("recordingID", rec.RecordingID),
		slog.String("uploadID", session.UploadID),
		slog.String("key", session.ObjectKey),
		slog.Int("partSlots", len(session.PartURLs)))
	return session, nil
}
