package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/notifier"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeEncoder struct {
	mu        sync.Mutex
	pending   [][]byte
	tail      []byte
	flushErr  error
	stopCalls int
}

func (e *fakeEncoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flushErr != nil {
		return nil, e.flushErr
	}
	if len(e.pending) == 0 {
		return nil, nil
	}
	next := e.pending[0]
	e.pending = e.pending[1:]
	return next, nil
}

func (e *fakeEncoder) Stop() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCalls++
	return e.tail, nil
}

type fakeDevice struct {
	encoder *fakeEncoder
	err     error
	profile domain.QualityProfile
}

func (d *fakeDevice) Open(_ context.Context, profile domain.QualityProfile) (Encoder, error) {
	d.profile = profile
	if d.err != nil {
		return nil, d.err
	}
	return d.encoder, nil
}

type countingPrompter struct {
	mu    sync.Mutex
	name  string
	calls int
}

func (p *countingPrompter) PromptName(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.name, nil
}

func testRecording() domain.RecordingSession {
	return domain.RecordingSession{
		RecordingID: "rec1",
		UserID:      "u1",
		RoomName:    "roomA",
		StartedAt:   1700000000000,
		Quality:     domain.QualityHigh,
		Host:        domain.Identity{UserID: "u1", Name: "Ada", Role: domain.RoleHost},
	}
}

// manualTicks replaces the interval ticker with a channel driven by the test
func manualTicks(opts Options) (Options, chan time.Time) {
	ticks := make(chan time.Time)
	opts.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger
	}
	return opts, ticks
}

func collect(t *testing.T, chunks <-chan domain.Chunk) []domain.Chunk {
	t.Helper()
	var out []domain.Chunk
	timeout := time.After(2 * time.Second)
	for {
		select {
		case c, ok := <-chunks:
			if !ok {
				return out
			}
			out = append(out, c)
		case <-timeout:
			t.Error("chunk stream was not closed")
			return nil
		}
	}
}

func TestStart_EmitsSequencedChunks(t *testing.T) {
	// Arrange
	encoder := &fakeEncoder{
		pending: [][]byte{[]byte("aaa"), []byte("bbb")},
		tail:    []byte("cc"),
	}
	device := &fakeDevice{encoder: encoder}
	notify := notifier.NewMockNotifier()
	notify.On("Broadcast", mock.Anything, mock.MatchedBy(func(e domain.RecordingStatusEvent) bool {
		return e.Kind == domain.StatusRecordingStarted && e.RoomName == "roomA" && e.HostName == "Ada"
	})).Return(nil).Once()
	notify.On("Broadcast", mock.Anything, mock.MatchedBy(func(e domain.RecordingStatusEvent) bool {
		return e.Kind == domain.StatusRecordingStopped
	})).Return(nil).Once()
	opts, ticks := manualTicks(Options{Prompter: StaticPrompter("Weekly Sync"), Notifier: notify})

	// Act
	session, chunks, err := Start(context.Background(), device, testRecording(), opts)
	require.NoError(t, err)
	ticks <- time.Now()
	ticks <- time.Now()
	first := <-chunks
	second := <-chunks
	name, stopErr := session.Stop(context.Background())
	rest := collect(t, chunks)

	// Assert
	require.NoError(t, stopErr)
	assert.Equal(t, "Weekly Sync", name)
	assert.Equal(t, domain.Chunk{Sequence: 0, Data: []byte("aaa")}, first)
	assert.Equal(t, domain.Chunk{Sequence: 1, Data: []byte("bbb")}, second)
	require.Len(t, rest, 1)
	assert.Equal(t, domain.Chunk{Sequence: 2, Data: []byte("cc"), IsFinal: true}, rest[0])
	assert.Equal(t, int64(8), session.TotalBytes())
	assert.Equal(t, domain.RecordingStateFinalizing, session.State())
	assert.Equal(t, "Weekly Sync", session.Recording().DisplayName)
	assert.Equal(t, domain.QualityHigh.Profile(), device.profile)
	assert.False(t, session.SizeLimitExceeded())
	notify.AssertExpectations(t)
}

func TestStart_SkipsEmptyFlush(t *testing.T) {
	// Arrange
	encoder := &fakeEncoder{pending: [][]byte{nil, []byte("data")}}
	opts, ticks := manualTicks(Options{Prompter: StaticPrompter("x")})
	_, chunks, err := Start(context.Background(), &fakeDevice{encoder: encoder}, testRecording(), opts)
	require.NoError(t, err)

	// Act
	ticks <- time.Now()
	ticks <- time.Now()
	chunk := <-chunks

	// Assert
	assert.Equal(t, 0, chunk.Sequence)
	assert.Equal(t, []byte("data"), chunk.Data)
}

func TestStart_DeviceUnavailable(t *testing.T) {
	// Arrange
	device := &fakeDevice{err: errors.New("permission denied")}
	opts, _ := manualTicks(Options{})

	// Act
	session, chunks, err := Start(context.Background(), device, testRecording(), opts)

	// Assert
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
	assert.ErrorContains(t, err, "permission denied")
	assert.Nil(t, session)
	assert.Nil(t, chunks)
}

func TestStart_InvalidQualityFallsBackToDefault(t *testing.T) {
	// Arrange
	device := &fakeDevice{encoder: &fakeEncoder{}}
	rec := testRecording()
	rec.Quality = "ultra"
	opts, _ := manualTicks(Options{Prompter: StaticPrompter("x")})

	// Act
	session, chunks, err := Start(context.Background(), device, rec, opts)
	require.NoError(t, err)
	go collect(t, chunks)
	_, _ = session.Stop(context.Background())

	// Assert
	assert.Equal(t, domain.DefaultQuality.Profile(), device.profile)
	assert.Equal(t, domain.DefaultQuality, session.Recording().Quality)
}

func TestSession_SizeCeilingForceStops(t *testing.T) {
	// Arrange
	sixMB := bytes.Repeat([]byte{1}, 6<<20)
	encoder := &fakeEncoder{
		pending: [][]byte{sixMB, sixMB, sixMB},
		tail:    []byte("tail"),
	}
	opts, ticks := manualTicks(Options{
		MaxTotalBytes: 10 << 20,
		Prompter:      StaticPrompter("Capped"),
	})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: encoder}, testRecording(), opts)
	require.NoError(t, err)

	// Act
	ticks <- time.Now()
	ticks <- time.Now()
	got := collect(t, chunks)
	name, stopErr := session.Stop(context.Background())

	// Assert
	require.NoError(t, stopErr)
	assert.Equal(t, "Capped", name)
	assert.True(t, session.SizeLimitExceeded())
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Sequence)
	assert.Equal(t, 1, got[1].Sequence)
	assert.True(t, got[2].IsFinal)
	assert.Equal(t, []byte("tail"), got[2].Data)
	assert.Equal(t, 1, encoder.stopCalls)
	assert.Len(t, encoder.pending, 1)
}

func TestSession_StopIsIdempotent(t *testing.T) {
	// Arrange
	encoder := &fakeEncoder{tail: []byte("t")}
	prompter := &countingPrompter{name: "Once"}
	opts, _ := manualTicks(Options{Prompter: prompter})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: encoder}, testRecording(), opts)
	require.NoError(t, err)
	go collect(t, chunks)

	// Act
	first, err1 := session.Stop(context.Background())
	second, err2 := session.Stop(context.Background())

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "Once", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, prompter.calls)
	assert.Equal(t, 1, encoder.stopCalls)
}

func TestSession_StopBlankNameGetsFriendlyName(t *testing.T) {
	// Arrange
	opts, _ := manualTicks(Options{Prompter: StaticPrompter("   ")})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: &fakeEncoder{}}, testRecording(), opts)
	require.NoError(t, err)
	go collect(t, chunks)

	// Act
	name, err := session.Stop(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z][a-z]+ [A-Z][a-z]+ \d{3}$`, name)
}

func TestSession_Abort(t *testing.T) {
	// Arrange
	encoder := &fakeEncoder{pending: [][]byte{[]byte("aaa")}, tail: []byte("lost")}
	prompter := &countingPrompter{name: "unused"}
	opts, ticks := manualTicks(Options{Prompter: prompter})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: encoder}, testRecording(), opts)
	require.NoError(t, err)
	ticks <- time.Now()

	// Act
	session.Abort()
	got := collect(t, chunks)

	// Assert
	require.Len(t, got, 1)
	assert.False(t, got[0].IsFinal)
	assert.Equal(t, domain.RecordingStateAborted, session.State())
	assert.Equal(t, 1, encoder.stopCalls)
	assert.Zero(t, prompter.calls)
	select {
	case <-session.Done():
	default:
		t.Fatal("session not done after abort")
	}
}

func TestSession_FlushErrorFailsCapture(t *testing.T) {
	// Arrange
	encoder := &fakeEncoder{flushErr: errors.New("broken pipe"), tail: []byte("t")}
	opts, ticks := manualTicks(Options{Prompter: StaticPrompter("x")})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: encoder}, testRecording(), opts)
	require.NoError(t, err)

	// Act
	ticks <- time.Now()
	got := collect(t, chunks)
	_, stopErr := session.Stop(context.Background())

	// Assert
	assert.ErrorContains(t, stopErr, "broken pipe")
	assert.Equal(t, domain.RecordingStateFailed, session.State())
	require.Len(t, got, 1)
	assert.True(t, got[0].IsFinal)
}

func TestSession_ContextCancelStopsCapture(t *testing.T) {
	// Arrange
	encoder := &fakeEncoder{tail: []byte("end")}
	opts, _ := manualTicks(Options{Prompter: StaticPrompter("x")})
	ctx, cancel := context.WithCancel(context.Background())
	session, chunks, err := Start(ctx, &fakeDevice{encoder: encoder}, testRecording(), opts)
	require.NoError(t, err)

	// Act
	cancel()
	got := collect(t, chunks)

	// Assert
	require.Len(t, got, 1)
	assert.True(t, got[0].IsFinal)
	assert.Equal(t, []byte("end"), got[0].Data)
	<-session.Done()
}

func TestSession_NotifierFailureIsNotFatal(t *testing.T) {
	// Arrange
	notify := notifier.NewMockNotifier()
	notify.On("Broadcast", mock.Anything, mock.Anything).Return(errors.New("room gone"))
	opts, _ := manualTicks(Options{Prompter: StaticPrompter("x"), Notifier: notify})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: &fakeEncoder{}}, testRecording(), opts)
	require.NoError(t, err)
	go collect(t, chunks)

	// Act
	name, stopErr := session.Stop(context.Background())

	// Assert
	assert.NoError(t, stopErr)
	assert.Equal(t, "x", name)
	notify.AssertNumberOfCalls(t, "Broadcast", 2)
}

func TestSession_PresetNameSkipsPrompt(t *testing.T) {
	// Arrange
	prompter := &countingPrompter{name: "ignored"}
	rec := testRecording()
	rec.DisplayName = "Board Meeting"
	opts, _ := manualTicks(Options{Prompter: prompter})
	session, chunks, err := Start(context.Background(), &fakeDevice{encoder: &fakeEncoder{}}, rec, opts)
	require.NoError(t, err)
	go collect(t, chunks)

	// Act
	name, err := session.Stop(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Board Meeting", name)
	assert.Zero(t, prompter.calls)
}
