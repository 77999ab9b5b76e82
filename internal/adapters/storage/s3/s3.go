package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/config"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Adapter is an adapter for AWS S3
type Adapter struct {
	client  *s3.Client
	presign *s3.PresignClient
	config  config.S3Config
	logger  *slog.Logger
}

// NewAdapter creates an S3 adapter using static credentials when set, the default chain otherwise
func NewAdapter(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*Adapter, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else {
		logger.Warn("S3 client using default credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &Adapter{
		client:  client,
		presign: s3.NewPresignClient(client),
		config:  cfg,
		logger:  logger,
	}, nil
}

// InitMultipartUpload opens a multipart upload for objectKey
func (a *Adapter) InitMultipartUpload(ctx context.Context, objectKey string, contentType string, metadata map[string]string) (string, error) {
	out, err := a.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(a.config.BucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return "", fmt.Errorf("create multipart upload: %w", err)
	}
	if out.UploadId == nil || *out.UploadId == "" {
		return "", errors.New("create multipart upload: empty upload id")
	}
	return *out.UploadId, nil
}

// PresignPartURL generates a presigned PUT url for one part
func (a *Adapter) PresignPartURL(ctx context.Context, objectKey string, uploadID string, partNumber int, expiry time.Duration) (string, error) {
	req, err := a.presign.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(a.config.BucketName),
		Key:        aws.String(objectKey),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(int32(partNumber)),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign upload part: %w", err)
	}
	return req.URL, nil
}

// CompleteMultipartUpload assembles the parts, which must already be sorted
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, objectKey string, uploadID string, parts []domain.UploadPart) (*domain.CompletedObject, error) {
	completed := make([]types.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, types.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(int32(part.PartNumber)),
		})
	}

	out, err := a.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(a.config.BucketName),
		Key:             aws.String(objectKey),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return nil, fmt.Errorf("complete multipart upload: %w", mapError(err))
	}
	return &domain.CompletedObject{
		Location:   aws.ToString(out.Location),
		ETag:       strings.Trim(aws.ToString(out.ETag), "\""),
		PartsCount: len(parts),
	}, nil
}

// AbortMultipartUpload releases a multipart upload and its parts
func (a *Adapter) AbortMultipartUpload(ctx context.Context, objectKey string, uploadID string) error {
	_, err := a.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(a.config.BucketName),
		Key:      aws.String(objectKey),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return fmt.Errorf("abort multipart upload: %w", mapError(err))
	}
	a.logger.Info("multipart upload aborted",
		slog.String("objectKey", objectKey),
		slog.String("uploadID", uploadID))
	return nil
}

// ListPartsPaginated lists uploaded parts with pagination
func (a *Adapter) ListPartsPaginated(ctx context.Context, objectKey string, uploadID string, maxParts int, partNumberMarker int) ([]domain.UploadPart, int, error) {
	if maxParts <= 0 || maxParts > 1000 {
		maxParts = 1000
	}
	in := &s3.ListPartsInput{
		Bucket:   aws.String(a.config.BucketName),
		Key:      aws.String(objectKey),
		UploadId: aws.String(uploadID),
		MaxParts: aws.Int32(int32(maxParts)),
	}
	if partNumberMarker > 0 {
		in.PartNumberMarker = aws.String(strconv.Itoa(partNumberMarker))
	}
	out, err := a.client.ListParts(ctx, in)
	if err != nil {
		return nil, 0, fmt.Errorf("list parts: %w", mapError(err))
	}

	parts := make([]domain.UploadPart, 0, len(out.Parts))
	for _, p := range out.Parts {
		parts = append(parts, domain.UploadPart{
			PartNumber: int(aws.ToInt32(p.PartNumber)),
			ETag:       strings.Trim(aws.ToString(p.ETag), "\""),
			Size:       aws.ToInt64(p.Size),
		})
	}

	next := 0
	if aws.ToBool(out.IsTruncated) && out.NextPartNumberMarker != nil {
		next, _ = strconv.Atoi(*out.NextPartNumberMarker)
	}
	return parts, next, nil
}

// ListIncompleteUploads lists multipart uploads that were neither completed nor aborted
func (a *Adapter) ListIncompleteUploads(ctx context.Context, prefix string) ([]domain.IncompleteUpload, error) {
	var uploads []domain.IncompleteUpload
	in := &s3.ListMultipartUploadsInput{
		Bucket: aws.String(a.config.BucketName),
		Prefix: aws.String(prefix),
	}
	for {
		out, err := a.client.ListMultipartUploads(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("list multipart uploads: %w", err)
		}
		for _, u := range out.Uploads {
			uploads = append(uploads, domain.IncompleteUpload{
				Key:       aws.ToString(u.Key),
				UploadID:  aws.ToString(u.UploadId),
				Initiated: aws.ToTime(u.Initiated),
			})
		}
		if !aws.ToBool(out.IsTruncated) {
			return uploads, nil
		}
		in.KeyMarker = out.NextKeyMarker
		in.UploadIdMarker = out.NextUploadIdMarker
	}
}

// StatObject retrieves obj info
func (a *Adapter) StatObject(ctx context.Context, objectKey string) (*domain.StoredObject, error) {
	out, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("head object: %w", mapError(err))
	}
	return &domain.StoredObject{
		Key:          objectKey,
		Size:         aws.ToInt64(out.ContentLength),
		ETag:         strings.Trim(aws.ToString(out.ETag), "\""),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// ListObjects lists every object under prefix
func (a *Adapter) ListObjects(ctx context.Context, prefix string) ([]domain.StoredObject, error) {
	var objects []domain.StoredObject
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.config.BucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, domain.StoredObject{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				ETag:         strings.Trim(aws.ToString(obj.ETag), "\""),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

// GetObject retrieves an obj, the caller closes the body
func (a *Adapter) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", mapError(err))
	}
	return out.Body, nil
}

// GetHeaderBytes reads the first n bytes of an object
func (a *Adapter) GetHeaderBytes(ctx context.Context, objectKey string, n int64) ([]byte, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(objectKey),
		Range:  aws.String(fmt.Sprintf("bytes=0-%d", n-1)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object range: %w", mapError(err))
	}
	defer out.Body.Close()

	buffer := make([]byte, n)
	numRead, err := io.ReadFull(out.Body, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read header bytes: %w", err)
	}
	return buffer[:numRead], nil
}

// DeleteObject removes an object from S3
func (a *Adapter) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", mapError(err))
	}
	a.logger.Info("object deleted",
		slog.String("objectKey", objectKey),
		slog.String("bucket", a.config.BucketName))
	return nil
}

// PresignDownloadURL returns a pre-signed GET URL for download
func (a *Adapter) PresignDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

func mapError(err error) error {
	var noUpload *types.NoSuchUpload
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	switch {
	case errors.As(err, &noUpload):
		return fmt.Errorf("%w: %w", domain.ErrUploadNotFound, err)
	case errors.As(err, &noKey), errors.As(err, &notFound):
		return fmt.Errorf("%w: %w", domain.ErrObjectNotFound, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchUpload":
			return fmt.Errorf("%w: %w", domain.ErrUploadNotFound, err)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w", domain.ErrObjectNotFound, err)
		}
	}
	return err
}
