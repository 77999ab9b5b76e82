package uploader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// SetRecordingName sets the name sent along the completion request
func (c *Coordinator) SetRecordingName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordingName = name
}

// Wait blocks until every submitted part settled
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Complete waits for in-flight parts and asks the service to assemble them. It is attempted once.
func (c *Coordinator) Complete(ctx context.Context) (*domain.CompletedObject, error) {
	c.wg.Wait()

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionFailed, errNotInitiated)
	}
	if c.state != domain.UploadStateUploading {
		state, failErr := c.state, c.failErr
		c.mu.Unlock()
		if failErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCompletionFailed, failErr)
		}
		return nil, fmt.Errorf("%w: %w: upload is %s", domain.ErrCompletionFailed, domain.ErrSessionTerminal, state)
	}
	c.state = domain.UploadStateFinalizing
	session := c.session
	name := c.recordingName
	parts := make([]domain.UploadPart, 0, len(c.parts))
	for _, p := range c.parts {
		parts = append(parts, p)
	}
	c.mu.Unlock()

	domain.SortParts(parts)
	var cause error
	switch {
	case len(parts) == 0:
		cause = domain.ErrNoValidParts
	case !domain.Contiguous(parts):
		cause = fmt.Errorf("%w: got %d parts ending at %d", domain.ErrNonContiguousParts, len(parts), parts[len(parts)-1].PartNumber)
	}
	if cause != nil {
		c.logger.Error("refusing to complete upload", slog.String("uploadID", session.UploadID), slog.Any("error", cause))
		c.abortSession(ctx, session)
		c.setState(domain.UploadStateFailed)
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionFailed, cause)
	}

	completed, err := c.api.Complete(ctx, session.UploadID, session.ObjectKey, parts, name)
	if err != nil {
		c.logger.Error("failed to complete upload", slog.String("uploadID", session.UploadID), slog.Any("error", err))
		c.abortSession(ctx, session)
		c.setState(domain.UploadStateFailed)
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionFailed, err)
	}

	c.setState(domain.UploadStateCompleted)
	c.logger.Info("upload completed",
		slog.String("uploadID", session.UploadID),
		slog.String("key", session.ObjectKey),
		slog.Int("parts", len(parts)))
	return completed, nil
}

// Abort discards the upload on the store without waiting for in-flight parts.
// It is best effort and never fails, a completed upload is left alone.
func (c *Coordinator) Abort(ctx context.Context) {
	c.mu.Lock()
	session := c.session
	if c.state == domain.UploadStateCompleted {
		c.mu.Unlock()
		return
	}
	c.state = domain.UploadStateAborting
	c.mu.Unlock()

	if session == nil {
		c.setState(domain.UploadStateAborted)
		return
	}
	c.abortSession(ctx, session)
	c.setState(domain.UploadStateAborted)
}

func (c *Coordinator) abortSession(ctx context.Context, session *domain.UploadSession) {
	if err := c.api.Abort(context.WithoutCancel(ctx), session.UploadID, session.ObjectKey); err != nil {
		c.logger.Warn("failed to abort upload",
			slog.String("uploadID", session.UploadID),
			slog.String("key", session.ObjectKey),
			slog.Any("error", err))
		return
	}
	c.logger.Info("upload aborted", slog.String("uploadID", session.UploadID))
}

func (c *Coordinator) setState(state domain.UploadState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}
