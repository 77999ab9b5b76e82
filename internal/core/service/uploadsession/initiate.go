package uploadsession

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// Initiate opens a multipart upload for a recording and presigns every anticipated part
func (s *uploadSessionService) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.InitiateResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	estimatedParts := req.EstimatedParts
	if estimatedParts == 0 {
		estimatedParts = s.cfg.DefaultEstimatedParts
	}
	if estimatedParts < domain.MinEstimatedParts || estimatedParts > domain.MaxEstimatedParts {
		return nil, fmt.Errorf("%w: estimatedParts must be within [%d, %d]",
			domain.ErrValidation, domain.MinEstimatedParts, domain.MaxEstimatedParts)
	}

	quality, err := domain.ParseQuality(req.Quality)
	if err != nil {
		return nil, err
	}

	objectKey, err := domain.BuildObjectKey(domain.ObjectKeyParts{
		UserID:        req.UserID,
		RoomName:      req.RoomName,
		Timestamp:     req.Timestamp,
		RecordingID:   req.RecordingID,
		Quality:       quality,
		RecordingName: req.RecordingName,
	})
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"userId":        req.UserID,
		"roomName":      req.RoomName,
		"timestamp":     strconv.FormatInt(req.Timestamp, 10),
		"recordingId":   req.RecordingID,
		"recordingName": domain.SanitizeName(req.RecordingName),
		"quality":       string(quality),
		"uploadType":    "multipart",
	}

	uploadID, err := s.storage.InitMultipartUpload(ctx, objectKey, domain.RecordingContentType, metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	urls := make([]string, 0, estimatedParts)
	for partNumber := 1; partNumber <= estimatedParts; partNumber++ {
		url, presignErr := s.storage.PresignPartURL(ctx, objectKey, uploadID, partNumber, s.cfg.PartURLExpiry)
		if presignErr != nil {
			s.abortQuietly(ctx, objectKey, uploadID, "presign failed")
			return nil, fmt.Errorf("%w: part %d: %w", domain.ErrStore, partNumber, presignErr)
		}
		urls = append(urls, url)
	}

	s.logger.Info("multipart upload initiated",
		slog.String("objectKey", objectKey),
		slog.String("uploadID", uploadID),
		slog.Int("parts", estimatedParts))

	return &domain.InitiateResult{
		UploadID:      uploadID,
		ObjectKey:     objectKey,
		PresignedURLs: urls,
		MaxParts:      estimatedParts,
		Config: domain.UploadConfig{
			ChunkSize:  s.cfg.MinPartSize,
			MaxRetries: s.cfg.MaxRetries,
			RetryDelay: s.cfg.RetryDelay,
		},
	}, nil
}
