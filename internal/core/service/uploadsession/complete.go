package uploadsession

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Complete assembles the uploaded parts into the final recording.
// Any rejection past validation aborts the store-side upload, completion is never attempted twice.
func (s *uploadSessionService) Complete(ctx context.Context, uploadID string, objectKey string, parts []domain.UploadPart) (*domain.CompletedObject, error) {
	if err := validateHandle(uploadID, objectKey); err != nil {
		return nil, err
	}

	valid := make([]domain.UploadPart, 0, len(parts))
	for _, p := range parts {
		etag := strings.Trim(strings.TrimSpace(p.ETag), "\"")
		if p.PartNumber < 1 || etag == "" {
			continue
		}
		valid = append(valid, domain.UploadPart{PartNumber: p.PartNumber, ETag: etag, Size: p.Size})
	}
	if dropped := len(parts) - len(valid); dropped > 0 {
		s.logger.Warn("dropped invalid parts", slog.String("objectKey", objectKey), slog.Int("dropped", dropped))
	}

	if len(valid) == 0 {
		s.abortQuietly(ctx, objectKey, uploadID, "no valid parts")
		return nil, domain.ErrNoValidParts
	}

	domain.SortParts(valid)
	for i := 1; i < len(valid); i++ {
		if valid[i].PartNumber == valid[i-1].PartNumber {
			s.abortQuietly(ctx, objectKey, uploadID, "duplicate part")
			return nil, fmt.Errorf("%w: %d", domain.ErrDuplicatePart, valid[i].PartNumber)
		}
	}
	if !domain.Contiguous(valid) {
		s.abortQuietly(ctx, objectKey, uploadID, "non contiguous parts")
		return nil, domain.ErrNonContiguousParts
	}

	completed, err := s.storage.CompleteMultipartUpload(ctx, objectKey, uploadID, valid)
	if err != nil {
		s.logger.Error("failed to complete multipart upload",
			slog.String("objectKey", objectKey),
			slog.String("uploadID", uploadID),
			slog.Any("error", err))
		s.abortQuietly(ctx, objectKey, uploadID, "completion failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletionFailed, err)
	}

	s.logger.Info("multipart upload completed",
		slog.String("objectKey", objectKey),
		slog.String("location", completed.Location),
		slog.Int("parts", completed.PartsCount))
	return completed, nil
}
