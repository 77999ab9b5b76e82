package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// PartWriter uploads part bytes straight to presigned store urls
type PartWriter struct {
	http   *http.Client
	logger *slog.Logger
}

// NewPartWriter creates a PartWriter
func NewPartWriter(httpClient *http.Client, logger *slog.Logger) *PartWriter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &PartWriter{http: httpClient, logger: logger}
}

// PutPart uploads data with a PUT and returns the ETag header assigned by the store
func (w *PartWriter) PutPart(ctx context.Context, url string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build part request: %w", err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Type", domain.RecordingContentType)

	start := time.Now()
	resp, err := w.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("put part: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("put part: unexpected status %d", resp.StatusCode)
	}

	etag := strings.TrimSpace(resp.Header.Get("ETag"))
	if etag == "" {
		return "", domain.ErrMissingPartTag
	}

	w.logger.Debug("part uploaded",
		slog.Int("bytes", len(data)),
		slog.Duration("duration", time.Since(start)))
	return etag, nil
}
