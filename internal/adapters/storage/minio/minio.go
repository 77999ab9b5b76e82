package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, logger: logger}, nil
}

// InitMultipartUpload opens a multipart upload for objectKey
func (a *Adapter) InitMultipartUpload(ctx context.Context, objectKey string, contentType string, metadata map[string]string) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	}
	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, objectKey, opts)
	if err != nil {
		return "", fmt.Errorf("failed to init multipart upload: %w", err)
	}
	return uploadID, nil
}

// PresignPartURL generates a presigned PUT url for one part
func (a *Adapter) PresignPartURL(ctx context.Context, objectKey string, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("partNumber", strconv.Itoa(partNumber))
	reqParams.Set("uploadId", uploadID)

	presignedURL, err := a.client.Presign(ctx, http.MethodPut, a.config.BucketName, objectKey, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for part: %w", err)
	}
	return presignedURL.String(), nil
}

// CompleteMultipartUpload assembles the parts, which must already be sorted
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, objectKey string, uploadID string, parts []domain.UploadPart) (*domain.CompletedObject, error) {
	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
		})
	}

	info, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, objectKey, uploadID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to complete multipart upload: %w", mapError(err))
	}

	location := info.Location
	if location == "" {
		location = fmt.Sprintf("%s/%s/%s", a.client.EndpointURL().String(), a.config.BucketName, objectKey)
	}
	return &domain.CompletedObject{
		Location:   location,
		ETag:       strings.Trim(info.ETag, "\""),
		PartsCount: len(parts),
	}, nil
}

// AbortMultipartUpload releases a multipart upload and its parts
func (a *Adapter) AbortMultipartUpload(ctx context.Context, objectKey string, uploadID string) error {
	err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, objectKey, uploadID)
	if err != nil {
		return fmt.Errorf("failed to abort multipart upload: %w", mapError(err))
	}

	a.logger.Info("multipart upload aborted",
		slog.String("objectKey", objectKey),
		slog.String("uploadID", uploadID))

	return nil
}

// ListPartsPaginated lists uploaded parts with pagination
func (a *Adapter) ListPartsPaginated(ctx context.Context, objectKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error) {
	if maxParts <= 0 || maxParts > 1000 {
		maxParts = 1000 //max size for minio
	}

	result, err := a.core.ListObjectParts(ctx, a.config.BucketName, objectKey, uploadID, partNumberMarker, maxParts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parts: %w", mapError(err))
	}

	parts := make([]domain.UploadPart, 0, len(result.ObjectParts))
	for _, part := range result.ObjectParts {
		parts = append(parts, domain.UploadPart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
			Size:       part.Size,
		})
	}

	next := 0
	if result.IsTruncated {
		next = result.NextPartNumberMarker
	}
	return parts, next, nil
}

// ListIncompleteUploads lists multipart uploads that were neither completed nor aborted
func (a *Adapter) ListIncompleteUploads(ctx context.Context, prefix string) ([]domain.IncompleteUpload, error) {
	var uploads []domain.IncompleteUpload
	for info := range a.client.ListIncompleteUploads(ctx, a.config.BucketName, prefix, true) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list incomplete uploads: %w", info.Err)
		}
		uploads = append(uploads, domain.IncompleteUpload{
			Key:       info.Key,
			UploadID:  info.UploadID,
			Initiated: info.Initiated,
		})
	}
	return uploads, nil
}

// StatObject retrieves obj info
func (a *Adapter) StatObject(ctx context.Context, objectKey string) (*domain.StoredObject, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object info: %w", mapError(err))
	}
	return toStoredObject(info), nil
}

// ListObjects lists every object under prefix
func (a *Adapter) ListObjects(ctx context.Context, prefix string) ([]domain.StoredObject, error) {
	var objects []domain.StoredObject
	for info := range a.client.ListObjects(ctx, a.config.BucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", info.Err)
		}
		objects = append(objects, *toStoredObject(info))
	}
	return objects, nil
}

// GetObject retrieves an obj
func (a *Adapter) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	if _, err := a.StatObject(ctx, objectKey); err != nil {
		return nil, err
	}
	object, err := a.client.GetObject(ctx, a.config.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", mapError(err))
	}
	return object, nil
}

// GetHeaderBytes reads the first n bytes of an object
func (a *Adapter) GetHeaderBytes(ctx context.Context, objectKey string, n int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	err := opts.SetRange(0, n-1)
	if err != nil {
		return nil, fmt.Errorf("failed to set range: %w", err)
	}

	object, err := a.client.GetObject(ctx, a.config.BucketName, objectKey, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get partial object: %w", mapError(err))
	}
	defer object.Close()

	buffer := make([]byte, n)
	numRead, err := io.ReadFull(object, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read header bytes: %w", mapError(err))
	}

	return buffer[:numRead], nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, objectKey string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", mapError(err))
	}

	a.logger.Info("object deleted",
		slog.String("objectKey", objectKey),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// PresignDownloadURL generates a presigned URL for downloading a recording
func (a *Adapter) PresignDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presignedURL.String(), nil
}

func toStoredObject(info minio.ObjectInfo) *domain.StoredObject {
	return &domain.StoredObject{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         strings.Trim(info.ETag, "\""),
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}
}

func mapError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchUpload":
		return fmt.Errorf("%w: %w", domain.ErrUploadNotFound, err)
	case "NoSuchKey":
		return fmt.Errorf("%w: %w", domain.ErrObjectNotFound, err)
	}
	return err
}
