package uploadsession_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/storage"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/service/uploadsession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSessionService_Status_Uploading(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := uploadsession.NewUploadSessionService(mockStorage, defaultCfg, discardLogger)

	mockStorage.On("ListPartsPaginated", ctx, testKey, testUploadID, 1000, 0).Return([]domain.UploadPart{
		{PartNumber: 1, ETag: "a", Size: 100},
		{PartNumber: 2, ETag: "b", Size: 50},
	}, 0, nil)

	// Act
	status, err := service.Status(ctx, testUploadID, testKey, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStateUploading, status.State)
	assert.Equal(t, 2, status.PartsUploaded)
	assert.Equal(t, int64(150), status.TotalBytes)
	assert.InDelta(t, 10.0, status.Progress, 0.001)
}

func TestUploadSessionService_Status_ProgressCapped(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := uploadsession.NewUploadSessionService(mockStorage, defaultCfg, discardLogger)

	mockStorage.On("ListPartsPaginated", ctx, testKey, testUploadID, 1000, 0).
		Return([]domain.UploadPart{{PartNumber: 1}, {PartNumber: 2}}, 2, nil)
	mockStorage.On("ListPartsPaginated", ctx, testKey, testUploadID, 1000, 2).
		Return([]domain.UploadPart{{PartNumber: 3}}, 0, nil)

	// Act
	status, err := service.Status(ctx, testUploadID, testKey, 3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, status.PartsUploaded)
	assert.Equal(t, 95.0, status.Progress)
}

func TestUploadSessionService_Status_Completed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := uploadsession.NewUploadSessionService(mockStorage, defaultCfg, discardLogger)

	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mockStorage.On("ListPartsPaginated", ctx, testKey, testUploadID, 1000, 0).
		Return(nil, 0, fmt.Errorf("list: %w", domain.ErrUploadNotFound))
	mockStorage.On("StatObject", ctx, testKey).
		Return(&domain.StoredObject{Key: testKey, Size: 4096, LastModified: modified}, nil)

	// Act
	status, err := service.Status(ctx, testUploadID, testKey, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStateCompleted, status.State)
	assert.Equal(t, int64(4096), status.TotalBytes)
	assert.Equal(t, 100.0, status.Progress)
	assert.Equal(t, modified, status.UpdatedAt)
}

func TestUploadSessionService_Status_Aborted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := uploadsession.NewUploadSessionService(mockStorage, defaultCfg, discardLogger)

	mockStorage.On("ListPartsPaginated", ctx, testKey, testUploadID, 1000, 0).
		Return(nil, 0, fmt.Errorf("list: %w", domain.ErrUploadNotFound))
	mockStorage.On("StatObject", ctx, testKey).Return(nil, fmt.Errorf("stat: %w", domain.ErrObjectNotFound))

	// Act
	status, err := service.Status(ctx, testUploadID, testKey, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.UploadStateAborted, status.State)
	assert.Zero(t, status.Progress)
}

func TestUploadSessionService_Status_StoreError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStorage := storage.NewMockStorage()
	service := uploadsession.NewUploadSessionService(mockStorage, defaultCfg, discardLogger)

	mockStorage.On("ListPartsPaginated", ctx, testKey, testUploadID, 1000, 0).Return(nil, 0, errors.New("down"))
	mockStorage.On("StatObject", ctx, testKey).Return(nil, errors.New("down"))

	// Act
	status, err := service.Status(ctx, testUploadID, testKey, 0)

	// Assert
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Nil(t, status)
}
