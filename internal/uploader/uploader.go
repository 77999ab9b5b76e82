package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/CybraneX-team/livekit-meeting/internal/core/port"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Options tunes the coordinator, zero values take the session config or the defaults
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Logger     *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// Coordinator drives the multipart upload of one recording
type Coordinator struct {
	api    port.SessionAPI
	writer port.PartWriter
	opts   Options
	logger *slog.Logger

	wg       sync.WaitGroup
	failed   chan struct{}
	failOnce sync.Once

	mu            sync.Mutex
	state         domain.UploadState
	session       *domain.UploadSession
	recordingName string
	parts         map[int]domain.UploadPart
	inFlight      int
	bytesUploaded int64
	failErr       error
}

// New creates a Coordinator
func New(api port.SessionAPI, writer port.PartWriter, opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.sleep == nil {
		opts.sleep = sleepCtx
	}
	return &Coordinator{
		api:    api,
		writer: writer,
		opts:   opts,
		logger: opts.Logger,
		failed: make(chan struct{}),
		state:  domain.UploadStateIdle,
		parts:  make(map[int]domain.UploadPart),
	}
}

// Failed is closed on the first part that exhausted its retries
func (c *Coordinator) Failed() <-chan struct{} {
	return c.failed
}

// Err returns the permanent part failure, if any
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failErr
}

// Session returns the open upload session, nil before Initiate
func (c *Coordinator) Session() *domain.UploadSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// State returns the upload state
func (c *Coordinator) State() domain.UploadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns the client-side view of the upload
func (c *Coordinator) Progress() domain.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Progress{
		State:         c.state,
		PartsUploaded: len(c.parts),
		BytesUploaded: c.bytesUploaded,
		InFlight:      c.inFlight,
	}
}

func (c *Coordinator) fail(err error) {
	c.failOnce.Do(func() {
		c.mu.Lock()
		c.failErr = err
		if !c.state.Terminal() {
			c.state = domain.UploadStateFailed
		}
		c.mu.Unlock()
		close(c.failed)
	})
}

func clampParts(n int) int {
	return min(max(n, domain.MinEstimatedParts), domain.MaxEstimatedParts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var errNotInitiated = errors.New("upload not initiated")

func (c *Coordinator) handle() (*domain.UploadSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, errNotInitiated
	}
	return c.session, nil
}

func (c *Coordinator) retryPolicy(session *domain.UploadSession) (int, time.Duration) {
	retries := c.opts.MaxRetries
	if retries <= 0 {
		retries = session.Config.MaxRetries
	}
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	delay := c.opts.RetryDelay
	if delay <= 0 {
		delay = session.Config.RetryDelay
	}
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return retries, delay
}

func wrapInitiation(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInitiationFailed, err)
}
