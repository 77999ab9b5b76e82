package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
)

const ffmpegStopTimeout = 10 * time.Second

// FFmpegConfig describes the ffmpeg binary and the capture inputs
type FFmpegConfig struct {
	Path        string
	InputFormat string // x11grab, avfoundation, gdigrab
	VideoInput  string
	AudioFormat string // pulse, dshow, empty when the video input carries audio
	AudioInput  string
}

// FFmpegDevice captures the screen with ffmpeg and encodes VP9/Opus WebM to stdout
type FFmpegDevice struct {
	config FFmpegConfig
	logger *slog.Logger
}

// NewFFmpegDevice creates an FFmpegDevice
func NewFFmpegDevice(cfg FFmpegConfig, logger *slog.Logger) *FFmpegDevice {
	if cfg.Path == "" {
		cfg.Path = "ffmpeg"
	}
	return &FFmpegDevice{config: cfg, logger: logger}
}

// Open spawns ffmpeg, the returned encoder owns the process
func (d *FFmpegDevice) Open(ctx context.Context, profile domain.QualityProfile) (Encoder, error) {
	path, err := exec.LookPath(d.config.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeviceUnavailable, err)
	}

	// the process outlives the opening context, Stop ends it
	cmd := exec.CommandContext(context.WithoutCancel(ctx), path, buildArgs(d.config, profile)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	stderr := &limitedBuffer{max: 16 << 10}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeviceUnavailable, err)
	}
	d.logger.Info("ffmpeg started", slog.Int("pid", cmd.Process.Pid), slog.String("input", d.config.InputFormat))

	enc := &ffmpegEncoder{
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		copied: make(chan error, 1),
		logger: d.logger,
	}
	go enc.copyOutput(stdout)
	return enc, nil
}

// buildArgs renders the ffmpeg command line for a quality profile at a fixed bitrate
func buildArgs(cfg FFmpegConfig, profile domain.QualityProfile) []string {
	frameRate := strconv.Itoa(profile.FrameRate)
	args := []string{"-hide_banner", "-loglevel", "error", "-f", cfg.InputFormat, "-framerate", frameRate}
	if cfg.InputFormat == "x11grab" {
		args = append(args, "-draw_mouse", "1")
	}
	args = append(args, "-i", cfg.VideoInput)
	if cfg.AudioFormat != "" {
		args = append(args, "-f", cfg.AudioFormat, "-i", cfg.AudioInput)
	}

	videoRate := strconv.Itoa(profile.VideoBitrate)
	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:%d", profile.Width, profile.Height),
		"-r", frameRate,
		"-c:v", "libvpx-vp9",
		"-b:v", videoRate, "-minrate", videoRate, "-maxrate", videoRate,
		"-deadline", "realtime", "-cpu-used", "8", "-row-mt", "1",
		"-c:a", "libopus",
		"-b:a", strconv.Itoa(profile.AudioBitrate),
		"-f", "webm", "-live", "1",
		"pipe:1",
	)
	return args
}

type ffmpegEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *limitedBuffer
	copied chan error
	eof    atomic.Bool
	logger *slog.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

func (e *ffmpegEncoder) copyOutput(stdout io.Reader) {
	chunk := make([]byte, 64<<10)
	for {
		n, err := stdout.Read(chunk)
		if n > 0 {
			e.mu.Lock()
			e.buf.Write(chunk[:n])
			e.mu.Unlock()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			e.eof.Store(true)
			e.copied <- err
			return
		}
	}
}

func (e *ffmpegEncoder) take() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := bytes.Clone(e.buf.Bytes())
	e.buf.Reset()
	return out
}

func (e *ffmpegEncoder) Flush() ([]byte, error) {
	data := e.take()
	if len(data) == 0 && e.eof.Load() {
		return nil, fmt.Errorf("%w: ffmpeg exited: %s", domain.ErrDeviceUnavailable, e.stderr.String())
	}
	return data, nil
}

// Stop asks ffmpeg to quit so the WebM stream is terminated cleanly, then kills it on timeout
func (e *ffmpegEncoder) Stop() ([]byte, error) {
	_, _ = io.WriteString(e.stdin, "q")
	_ = e.stdin.Close()

	var copyErr error
	select {
	case copyErr = <-e.copied:
	case <-time.After(ffmpegStopTimeout):
		e.logger.Warn("ffmpeg did not quit, killing it")
		_ = e.cmd.Process.Kill()
		copyErr = <-e.copied
	}
	waitErr := e.cmd.Wait()

	tail := e.take()
	if copyErr != nil {
		return tail, fmt.Errorf("read ffmpeg output: %w", copyErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return tail, fmt.Errorf("wait ffmpeg: %w", waitErr)
	}
	if waitErr != nil {
		e.logger.Warn("ffmpeg exited with error", slog.Any("error", waitErr), slog.String("stderr", e.stderr.String()))
	}
	return tail, nil
}

// limitedBuffer keeps the first max bytes written to it
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
