package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

// SessionClient talks to the upload session service over HTTP
type SessionClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewSessionClient creates a SessionClient, baseURL points at the /api/v1 root
func NewSessionClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *SessionClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	return &SessionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

type initiateRequest struct {
	UserID         string `json:"userId"`
	RoomName       string `json:"roomName"`
	Timestamp      int64  `json:"timestamp"`
	RecordingID    string `json:"recordingId"`
	RecordingName  string `json:"recordingName,omitempty"`
	EstimatedParts int    `json:"estimatedParts,omitempty"`
	Quality        string `json:"quality,omitempty"`
}

type initiateResponse struct {
	UploadID      string   `json:"uploadId"`
	Key           string   `json:"key"`
	PresignedURLs []string `json:"presignedUrls"`
	MaxParts      int      `json:"maxParts"`
	UploadConfig  struct {
		ChunkSize  int64 `json:"chunkSize"`
		MaxRetries int   `json:"maxRetries"`
		RetryDelay int64 `json:"retryDelay"`
	} `json:"uploadConfig"`
}

type completedPart struct {
	PartNumber int    `json:"PartNumber"`
	ETag       string `json:"ETag"`
}

type recordingMetadata struct {
	RecordingName string `json:"recordingName,omitempty"`
}

type completeRequest struct {
	UploadID          string             `json:"uploadId"`
	Key               string             `json:"key"`
	Parts             []completedPart    `json:"parts"`
	RecordingMetadata *recordingMetadata `json:"recordingMetadata,omitempty"`
}

type completeResponse struct {
	Location   string `json:"location"`
	ETag       string `json:"etag"`
	PartsCount int    `json:"partsCount"`
}

type abortRequest struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

type statusResponse struct {
	Status        string    `json:"status"`
	PartsUploaded int       `json:"partsUploaded"`
	TotalSize     int64     `json:"totalSize"`
	Progress      float64   `json:"progress"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Initiate opens an upload session
func (c *SessionClient) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.UploadSession, error) {
	var resp initiateResponse
	err := c.do(ctx, http.MethodPost, "/recordings/multipart/initiate", initiateRequest{
		UserID:         req.UserID,
		RoomName:       req.RoomName,
		Timestamp:      req.Timestamp,
		RecordingID:    req.RecordingID,
		RecordingName:  req.RecordingName,
		EstimatedParts: req.EstimatedParts,
		Quality:        req.Quality,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.UploadID == "" || resp.Key == "" || len(resp.PresignedURLs) == 0 {
		return nil, fmt.Errorf("incomplete initiate response for %s", req.RecordingID)
	}
	return &domain.UploadSession{
		UploadID:  resp.UploadID,
		ObjectKey: resp.Key,
		PartURLs:  resp.PresignedURLs,
		MaxParts:  resp.MaxParts,
		Config: domain.UploadConfig{
			ChunkSize:  resp.UploadConfig.ChunkSize,
			MaxRetries: resp.UploadConfig.MaxRetries,
			RetryDelay: time.Duration(resp.UploadConfig.RetryDelay) * time.Millisecond,
		},
	}, nil
}

// Complete asks the service to assemble the uploaded parts
func (c *SessionClient) Complete(ctx context.Context, uploadID string, objectKey string, parts []domain.UploadPart, recordingName string) (*domain.CompletedObject, error) {
	body := completeRequest{
		UploadID: uploadID,
		Key:      objectKey,
		Parts:    make([]completedPart, 0, len(parts)),
	}
	for _, p := range parts {
		body.Parts = append(body.Parts, completedPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}
	if recordingName != "" {
		body.RecordingMetadata = &recordingMetadata{RecordingName: recordingName}
	}

	var resp completeResponse
	if err := c.do(ctx, http.MethodPost, "/recordings/multipart/complete", body, &resp); err != nil {
		return nil, err
	}
	return &domain.CompletedObject{
		Location:   resp.Location,
		ETag:       resp.ETag,
		PartsCount: resp.PartsCount,
	}, nil
}

// Abort asks the service to discard the upload
func (c *SessionClient) Abort(ctx context.Context, uploadID string, objectKey string) error {
	return c.do(ctx, http.MethodPost, "/recordings/multipart/abort", abortRequest{UploadID: uploadID, Key: objectKey}, nil)
}

// Status fetches the server view of an upload
func (c *SessionClient) Status(ctx context.Context, uploadID string, objectKey string) (*domain.UploadStatus, error) {
	q := url.Values{}
	q.Set("uploadId", uploadID)
	q.Set("key", objectKey)

	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, "/recordings/multipart/status?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &domain.UploadStatus{
		State:         domain.UploadState(resp.Status),
		PartsUploaded: resp.PartsUploaded,
		TotalBytes:    resp.TotalSize,
		Progress:      resp.Progress,
		UpdatedAt:     resp.LastUpdated,
	}, nil
}

func (c *SessionClient) do(ctx context.Context, method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// decodeError maps an error response back onto the domain errors the service raised
func decodeError(resp *http.Response) error {
	var e errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if jsonErr := json.Unmarshal(raw, &e); jsonErr != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(raw))
	}
	msg := e.Error
	if e.Details != "" {
		msg += ": " + e.Details
	}

	status := strconv.Itoa(resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", domain.ErrRecordingNotFound, status, msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s %s", domain.ErrValidation, status, msg)
	default:
		return fmt.Errorf("%w: %s %s", domain.ErrStore, status, msg)
	}
}
