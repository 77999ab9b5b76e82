package uploadsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
	"github.com/go-playground/validator/v10"
)

type uploadSessionService struct {
	storage  port.RecordingStorage
	cfg      config.RecordingConfig
	validate *validator.Validate
	logger   *slog.Logger
}

// NewUploadSessionService creates a new upload session service
func NewUploadSessionService(storage port.RecordingStorage, cfg config.RecordingConfig, logger *slog.Logger) port.UploadSessionService {
	validate := validator.New()
	err := validate.RegisterValidation("keysegment", func(fl validator.FieldLevel) bool {
		return domain.ValidKeySegment(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register keysegment validation: %v", err))
	}
	return &uploadSessionService{
		storage:  storage,
		cfg:      cfg,
		validate: validate,
		logger:   logger,
	}
}

func (s *uploadSessionService) validateRequest(req domain.InitiateRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fe.Field()+": "+fe.Tag())
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}

func validateHandle(uploadID string, objectKey string) error {
	if uploadID == "" || objectKey == "" {
		return fmt.Errorf("%w: uploadId and key are required", domain.ErrValidation)
	}
	if _, err := domain.ParseObjectKey(objectKey); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

// abortQuietly releases a multipart upload after a failure, the caller keeps its own error
func (s *uploadSessionService) abortQuietly(ctx context.Context, objectKey string, uploadID string, reason string) {
	if err := s.storage.AbortMultipartUpload(ctx, objectKey, uploadID); err != nil {
		s.logger.Warn("failed to abort multipart upload",
			slog.String("reason", reason),
			slog.String("objectKey", objectKey),
			slog.String("uploadID", uploadID),
			slog.Any("error", err))
	}
}
