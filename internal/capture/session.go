package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

const (
	chunkBuffer      = 4
	broadcastTimeout = 5 * time.Second
)

// Session is one running capture. The caller must drain its chunk stream until it is closed.
type Session struct {
	recording domain.RecordingSession
	encoder   Encoder
	opts      Options
	logger    *slog.Logger

	chunks  chan domain.Chunk
	stopCh  chan struct{}
	abortCh chan struct{}
	done    chan struct{}

	stopOnce  sync.Once
	abortOnce sync.Once
	nameOnce  sync.Once

	mu           sync.Mutex
	state        domain.RecordingState
	name         string
	err          error
	sequence     int
	totalBytes   int64
	sizeExceeded atomic.Bool
}

// Start opens the device and starts emitting chunks every ChunkInterval
func Start(ctx context.Context, device Device, recording domain.RecordingSession, opts Options) (*Session, <-chan domain.Chunk, error) {
	opts = opts.withDefaults()
	if !recording.Quality.Valid() {
		recording.Quality = domain.DefaultQuality
	}

	encoder, err := device.Open(ctx, recording.Quality.Profile())
	if err != nil {
		if errors.Is(err, domain.ErrDeviceUnavailable) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrDeviceUnavailable, err)
	}

	recording.State = domain.RecordingStateCapturing
	logger := opts.Logger.With(
		slog.String("recordingID", recording.RecordingID),
		slog.String("room", recording.RoomName))
	s := &Session{
		recording: recording,
		encoder:   encoder,
		opts:      opts,
		logger:    logger,
		chunks:    make(chan domain.Chunk, chunkBuffer),
		stopCh:    make(chan struct{}),
		abortCh:   make(chan struct{}),
		done:      make(chan struct{}),
		state:     domain.RecordingStateCapturing,
	}

	s.broadcast(ctx, domain.StatusRecordingStarted)
	s.logger.Info("capture started",
		slog.String("quality", string(recording.Quality)),
		slog.Duration("chunkInterval", opts.ChunkInterval))

	ticks, stopTicker := opts.newTicker(opts.ChunkInterval)
	go s.run(ctx, ticks, stopTicker)

	return s, s.chunks, nil
}

func (s *Session) run(ctx context.Context, ticks <-chan time.Time, stopTicker func()) {
	defer stopTicker()
	for {
		select {
		case <-ticks:
			if !s.flush() {
				s.finish(ctx, false)
				return
			}
		case <-s.stopCh:
			s.finish(ctx, false)
			return
		case <-s.abortCh:
			s.finish(ctx, true)
			return
		case <-ctx.Done():
			s.finish(ctx, false)
			return
		}
	}
}

// flush emits the bytes encoded since the last tick and reports whether capture goes on
func (s *Session) flush() bool {
	data, err := s.encoder.Flush()
	if err != nil {
		s.logger.Error("encoder flush failed", slog.Any("error", err))
		s.setErr(err)
		return false
	}
	if len(data) == 0 {
		return true
	}
	s.emit(data, false)

	if s.opts.MaxTotalBytes > 0 && s.TotalBytes() > s.opts.MaxTotalBytes {
		s.sizeExceeded.Store(true)
		s.logger.Warn("stopping capture",
			slog.Any("reason", domain.ErrSizeLimitExceeded),
			slog.Int64("totalBytes", s.TotalBytes()),
			slog.Int64("maxTotalBytes", s.opts.MaxTotalBytes))
		return false
	}
	return true
}

func (s *Session) emit(data []byte, final bool) {
	s.mu.Lock()
	chunk := domain.Chunk{Sequence: s.sequence, Data: data, IsFinal: final}
	s.sequence++
	s.totalBytes += int64(len(data))
	s.mu.Unlock()

	s.chunks <- chunk
}

func (s *Session) finish(ctx context.Context, aborted bool) {
	tail, err := s.encoder.Stop()
	if err != nil {
		s.logger.Error("encoder stop failed", slog.Any("error", err))
		s.setErr(err)
	}
	if !aborted {
		s.emit(tail, true)
	}
	close(s.chunks)

	s.mu.Lock()
	switch {
	case aborted:
		s.state = domain.RecordingStateAborted
	case s.err != nil:
		s.state = domain.RecordingStateFailed
	default:
		s.state = domain.RecordingStateFinalizing
	}
	s.mu.Unlock()

	s.broadcast(context.WithoutCancel(ctx), domain.StatusRecordingStopped)
	s.logger.Info("capture stopped",
		slog.Bool("aborted", aborted),
		slog.Bool("sizeLimitExceeded", s.SizeLimitExceeded()),
		slog.Int64("totalBytes", s.TotalBytes()))
	close(s.done)
}

// Stop ends the capture, flushes the final chunk and resolves the display name. It is idempotent.
func (s *Session) Stop(ctx context.Context) (string, error) {
	s.stopOnce.Do(func() { close(s.stopCh) })
	select {
	case <-s.done:
	default:
		select {
		case <-s.done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	s.nameOnce.Do(func() {
		name := s.promptName(ctx)
		s.mu.Lock()
		s.name = name
		s.recording.DisplayName = name
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.err
}

// Abort ends the capture without a final chunk or a name prompt
func (s *Session) Abort() {
	s.abortOnce.Do(func() { close(s.abortCh) })
	<-s.done
}

// Done is closed once the device is released and the chunk stream is closed
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) promptName(ctx context.Context) string {
	if name := strings.TrimSpace(s.recording.DisplayName); name != "" {
		return name
	}
	if s.opts.Prompter != nil {
		name, err := s.opts.Prompter.PromptName(ctx)
		if err != nil {
			s.logger.Warn("name prompt failed", slog.Any("error", err))
		}
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return FriendlyName()
}

func (s *Session) broadcast(ctx context.Context, kind domain.StatusKind) {
	if s.opts.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	event := domain.RecordingStatusEvent{
		Kind:         kind,
		RoomName:     s.recording.RoomName,
		RecordingID:  s.recording.RecordingID,
		HostIdentity: s.recording.Host.UserID,
		HostName:     s.recording.Host.Name,
		Timestamp:    time.Now(),
	}
	if err := s.opts.Notifier.Broadcast(ctx, event); err != nil {
		s.logger.Warn("failed to broadcast recording status", slog.String("type", string(kind)), slog.Any("error", err))
	}
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Recording returns a snapshot of the recording session
func (s *Session) Recording() domain.RecordingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recording
	rec.State = s.state
	return rec
}

// State returns the capture state
func (s *Session) State() domain.RecordingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TotalBytes returns the bytes emitted so far
func (s *Session) TotalBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes
}

// SizeLimitExceeded reports whether the size ceiling force-stopped the capture
func (s *Session) SizeLimitExceeded() bool {
	return s.sizeExceeded.Load()
}

// Err returns the encoder failure that ended the capture, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
