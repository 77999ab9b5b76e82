package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Submit uploads the chunk as part Sequence+1 in the background
func (c *Coordinator) Submit(ctx context.Context, chunk domain.Chunk) {
	partNumber := chunk.PartNumber()
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			c.inFlight--
			c.mu.Unlock()
		}()

		if _, err := c.UploadPart(ctx, partNumber, chunk.Data); err != nil {
			c.fail(err)
		}
	}()
}

// UploadPart PUTs one part to its presigned url with linear backoff retries and records its tag
func (c *Coordinator) UploadPart(ctx context.Context, partNumber int, data []byte) (string, error) {
	session, err := c.handle()
	if err != nil {
		return "", fmt.Errorf("%w: part %d: %w", domain.ErrChunkUploadFailed, partNumber, err)
	}
	if state := c.State(); state.Terminal() {
		return "", fmt.Errorf("%w: part %d: %w", domain.ErrChunkUploadFailed, partNumber, domain.ErrSessionTerminal)
	}

	url, ok := session.PartURL(partNumber)
	if !ok {
		c.logger.Error("no presigned url for part",
			slog.Int("partNumber", partNumber),
			slog.Int("partSlots", len(session.PartURLs)))
		return "", fmt.Errorf("%w: part %d: %w", domain.ErrChunkUploadFailed, partNumber, domain.ErrNoPartSlot)
	}

	maxRetries, retryDelay := c.retryPolicy(session)
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if state := c.State(); state.Terminal() {
			return "", fmt.Errorf("%w: part %d: %w", domain.ErrChunkUploadFailed, partNumber, domain.ErrSessionTerminal)
		}
		etag, putErr := c.writer.PutPart(ctx, url, data)
		if putErr == nil {
			if !c.record(domain.UploadPart{PartNumber: partNumber, ETag: etag, Size: int64(len(data))}) {
				return "", fmt.Errorf("%w: part %d: %w", domain.ErrChunkUploadFailed, partNumber, domain.ErrSessionTerminal)
			}
			c.logger.Debug("part uploaded",
				slog.Int("partNumber", partNumber),
				slog.Int("attempt", attempt),
				slog.Int("bytes", len(data)))
			return etag, nil
		}
		lastErr = putErr
		c.logger.Warn("part upload attempt failed",
			slog.Int("partNumber", partNumber),
			slog.Int("attempt", attempt),
			slog.Any("error", putErr))

		if attempt == maxRetries {
			break
		}
		if sleepErr := c.opts.sleep(ctx, time.Duration(attempt)*retryDelay); sleepErr != nil {
			lastErr = sleepErr
			break
		}
	}

	return "", fmt.Errorf("%w: part %d: %w", domain.ErrChunkUploadFailed, partNumber, lastErr)
}

// record stores the tag of a part, a retried part overwrites its previous tag.
// Parts settling after an abort started are dropped.
func (c *Coordinator) record(part domain.UploadPart) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.UploadStateAborting || c.state == domain.UploadStateAborted {
		return false
	}
	if prev, ok := c.parts[part.PartNumber]; ok {
		c.bytesUploaded -= prev.Size
	}
	c.parts[part.PartNumber] = part
	c.bytesUploaded += part.Size
	return true
}
