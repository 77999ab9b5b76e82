package recorder_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/client"
	"github.com/CybraneX-team/livekit-meeting/internal/capture"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/recorder"
	"github.com/CybraneX-team/livekit-meeting/internal/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// queueEncoder hands out queued chunks one flush at a time
type queueEncoder struct {
	mu      sync.Mutex
	pending [][]byte
	tail    []byte
	empty   chan struct{}
	once    sync.Once
	stopped bool
}

func newQueueEncoder(tail []byte, pending ...[]byte) *queueEncoder {
	return &queueEncoder{pending: pending, tail: tail, empty: make(chan struct{})}
}

func (e *queueEncoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		e.once.Do(func() { close(e.empty) })
		return nil, nil
	}
	next := e.pending[0]
	e.pending = e.pending[1:]
	return next, nil
}

func (e *queueEncoder) Stop() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	return e.tail, nil
}

func (e *queueEncoder) isStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

type queueDevice struct {
	encoder *queueEncoder
}

func (d *queueDevice) Open(context.Context, domain.QualityProfile) (capture.Encoder, error) {
	return d.encoder, nil
}

// memoryStore accepts presigned part PUTs and assembles them on completion
type memoryStore struct {
	mu       sync.Mutex
	parts    map[string][]byte
	failPart string
	objects  map[string][]byte
	server   *httptest.Server
}

func newMemoryStore(t *testing.T) *memoryStore {
	s := &memoryStore{parts: make(map[string][]byte), objects: make(map[string][]byte)}
	s.server = httptest.NewServer(http.HandlerFunc(s.putPart))
	t.Cleanup(s.server.Close)
	return s
}

func (s *memoryStore) putPart(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.URL.Path == s.failPart {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.parts[r.URL.Path] = body
	w.Header().Set("ETag", fmt.Sprintf(`"%x"`, md5.Sum(body)))
	w.WriteHeader(http.StatusOK)
}

// memoryAPI plays the upload session service against memoryStore
type memoryAPI struct {
	store *memoryStore

	mu            sync.Mutex
	initErr       error
	initiated     domain.InitiateRequest
	completeCalls int
	abortCalls    []string
	completedName string
}

func (a *memoryAPI) Initiate(_ context.Context, req domain.InitiateRequest) (*domain.UploadSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initErr != nil {
		return nil, a.initErr
	}
	a.initiated = req
	urls := make([]string, req.EstimatedParts)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/upload-1/%d", a.store.server.URL, i+1)
	}
	return &domain.UploadSession{
		UploadID:  "upload-1",
		ObjectKey: "u1_roomA_1700000000000_rec1.webm",
		PartURLs:  urls,
		MaxParts:  len(urls),
		Config:    domain.UploadConfig{MaxRetries: 3, RetryDelay: time.Millisecond},
	}, nil
}

func (a *memoryAPI) Complete(_ context.Context, uploadID string, key string, parts []domain.UploadPart, name string) (*domain.CompletedObject, error) {
	a.mu.Lock()
	a.completeCalls++
	a.completedName = name
	a.mu.Unlock()

	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	var object bytes.Buffer
	for _, p := range parts {
		data, ok := a.store.parts[fmt.Sprintf("/%s/%d", uploadID, p.PartNumber)]
		if !ok || fmt.Sprintf(`"%x"`, md5.Sum(data)) != p.ETag {
			return nil, fmt.Errorf("part %d does not match", p.PartNumber)
		}
		object.Write(data)
	}
	a.store.objects[key] = object.Bytes()
	return &domain.CompletedObject{Location: a.store.server.URL + "/" + key, ETag: "final", PartsCount: len(parts)}, nil
}

func (a *memoryAPI) Abort(_ context.Context, uploadID string, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abortCalls = append(a.abortCalls, uploadID+"/"+key)
	return nil
}

func (a *memoryAPI) Status(context.Context, string, string) (*domain.UploadStatus, error) {
	return nil, errors.New("not implemented")
}

func testRecording() domain.RecordingSession {
	return domain.RecordingSession{
		RecordingID: "rec1",
		UserID:      "u1",
		RoomName:    "roomA",
		StartedAt:   1700000000000,
		Quality:     domain.QualityMedium,
	}
}

func newPipeline(t *testing.T, encoder *queueEncoder, estimatedParts int, maxTotal int64) (*recorder.Pipeline, *memoryAPI, *memoryStore) {
	t.Helper()
	store := newMemoryStore(t)
	api := &memoryAPI{store: store}
	cfg := recorder.Config{
		EstimatedParts: estimatedParts,
		Capture: capture.Options{
			ChunkInterval: 2 * time.Millisecond,
			MaxTotalBytes: maxTotal,
			Prompter:      capture.StaticPrompter("Weekly Sync"),
		},
		Upload: uploader.Options{RetryDelay: time.Millisecond},
	}
	writer := client.NewPartWriter(store.server.Client(), discardLogger)
	return recorder.New(&queueDevice{encoder: encoder}, api, writer, cfg, discardLogger), api, store
}

func TestRecord_AssemblesChunksInOrder(t *testing.T) {
	// Arrange
	chunks := [][]byte{
		bytes.Repeat([]byte{'a'}, 4096),
		bytes.Repeat([]byte{'b'}, 4096),
		bytes.Repeat([]byte{'c'}, 4096),
	}
	encoder := newQueueEncoder([]byte("tail"), chunks...)
	pipeline, api, store := newPipeline(t, encoder, 10, 0)
	ctx, stop := context.WithCancel(context.Background())
	go func() {
		<-encoder.empty
		stop()
	}()

	// Act
	result, err := pipeline.Record(ctx, testRecording())

	// Assert
	require.NoError(t, err)
	expected := append(bytes.Join(chunks, nil), []byte("tail")...)
	assert.Equal(t, expected, store.objects[result.ObjectKey])
	assert.Equal(t, 4, result.Parts)
	assert.Equal(t, int64(len(expected)), result.Bytes)
	assert.Equal(t, "Weekly Sync", result.RecordingName)
	assert.Equal(t, "Weekly Sync", api.completedName)
	assert.False(t, result.SizeLimitExceeded)
	assert.Equal(t, 1, api.completeCalls)
	assert.Empty(t, api.abortCalls)
	assert.Equal(t, 10, api.initiated.EstimatedParts)
	assert.True(t, encoder.isStopped())
}

func TestRecord_EmptyTailIsNotUploaded(t *testing.T) {
	// Arrange
	encoder := newQueueEncoder(nil, []byte("only"))
	pipeline, _, store := newPipeline(t, encoder, 5, 0)
	ctx, stop := context.WithCancel(context.Background())
	go func() {
		<-encoder.empty
		stop()
	}()

	// Act
	result, err := pipeline.Record(ctx, testRecording())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parts)
	assert.Equal(t, []byte("only"), store.objects[result.ObjectKey])
}

func TestRecord_PartFailureAbortsUpload(t *testing.T) {
	// Arrange
	encoder := newQueueEncoder([]byte("tail"), []byte("one"), []byte("two"), []byte("three"))
	pipeline, api, store := newPipeline(t, encoder, 5, 0)
	store.failPart = "/upload-1/2"

	// Act
	result, err := pipeline.Record(context.Background(), testRecording())

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrChunkUploadFailed)
	assert.Zero(t, api.completeCalls)
	assert.Equal(t, []string{"upload-1/u1_roomA_1700000000000_rec1.webm"}, api.abortCalls)
	assert.True(t, encoder.isStopped())
}

func TestRecord_RunsOutOfPartSlots(t *testing.T) {
	// Arrange
	encoder := newQueueEncoder(nil, []byte("1"), []byte("2"), []byte("3"))
	pipeline, api, _ := newPipeline(t, encoder, 2, 0)

	// Act
	_, err := pipeline.Record(context.Background(), testRecording())

	// Assert
	assert.ErrorIs(t, err, domain.ErrChunkUploadFailed)
	assert.ErrorIs(t, err, domain.ErrNoPartSlot)
	assert.Zero(t, api.completeCalls)
	assert.Len(t, api.abortCalls, 1)
}

func TestRecord_InitiationFailureStopsCapture(t *testing.T) {
	// Arrange
	encoder := newQueueEncoder(nil, []byte("never"))
	pipeline, api, _ := newPipeline(t, encoder, 5, 0)
	api.initErr = domain.ErrStore

	// Act
	result, err := pipeline.Record(context.Background(), testRecording())

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInitiationFailed)
	assert.True(t, encoder.isStopped())
	assert.Empty(t, api.abortCalls)
}

func TestRecord_SizeCeilingFinalizesNormally(t *testing.T) {
	// Arrange
	encoder := newQueueEncoder([]byte("end"), []byte(strings.Repeat("x", 60)), []byte(strings.Repeat("y", 60)), []byte("unused"))
	pipeline, api, store := newPipeline(t, encoder, 5, 100)

	// Act
	result, err := pipeline.Record(context.Background(), testRecording())

	// Assert
	require.NoError(t, err)
	assert.True(t, result.SizeLimitExceeded)
	assert.Equal(t, 3, result.Parts)
	assert.Equal(t, strings.Repeat("x", 60)+strings.Repeat("y", 60)+"end", string(store.objects[result.ObjectKey]))
	assert.Empty(t, api.abortCalls)
	assert.Equal(t, 1, api.completeCalls)
}
