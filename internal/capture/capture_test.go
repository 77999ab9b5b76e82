package capture

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendlyName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := FriendlyName()
		assert.Regexp(t, `^[A-Z][a-z]+ [A-Z][a-z]+ [1-9]\d{2}$`, name)
		assert.Equal(t, strings.ReplaceAll(name, " ", "_"), domain.SanitizeName(name))
	}
}

func TestLinePrompter_PromptName(t *testing.T) {
	t.Run("reads one trimmed line", func(t *testing.T) {
		var out strings.Builder
		p := NewLinePrompter(strings.NewReader("  Design Review \nnext\n"), &out)

		name, err := p.PromptName(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Design Review", name)
		assert.Contains(t, out.String(), "Recording name")
	})

	t.Run("closed input yields an empty name", func(t *testing.T) {
		p := NewLinePrompter(strings.NewReader(""), nil)

		name, err := p.PromptName(context.Background())

		require.NoError(t, err)
		assert.Empty(t, name)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		r, w := io.Pipe()
		defer w.Close()
		p := NewLinePrompter(r, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := p.PromptName(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestBuildArgs(t *testing.T) {
	// Arrange
	cfg := FFmpegConfig{
		InputFormat: "x11grab",
		VideoInput:  ":0.0",
		AudioFormat: "pulse",
		AudioInput:  "default",
	}

	// Act
	args := strings.Join(buildArgs(cfg, domain.QualityLow.Profile()), " ")

	// Assert
	assert.Contains(t, args, "-f x11grab -framerate 15 -draw_mouse 1 -i :0.0")
	assert.Contains(t, args, "-f pulse -i default")
	assert.Contains(t, args, "-vf scale=1280:720")
	assert.Contains(t, args, "-c:v libvpx-vp9 -b:v 1000000 -minrate 1000000 -maxrate 1000000")
	assert.Contains(t, args, "-c:a libopus -b:a 64000")
	assert.True(t, strings.HasSuffix(args, "-f webm -live 1 pipe:1"))
}

func TestBuildArgs_NoSeparateAudio(t *testing.T) {
	cfg := FFmpegConfig{InputFormat: "avfoundation", VideoInput: "1:0"}

	args := buildArgs(cfg, domain.QualityMedium.Profile())

	assert.NotContains(t, args, "-draw_mouse")
	assert.Equal(t, 1, strings.Count(strings.Join(args, " "), " -i "))
}

func TestFFmpegDevice_MissingBinary(t *testing.T) {
	device := NewFFmpegDevice(FFmpegConfig{Path: "definitely-not-ffmpeg-binary"}, discardLogger)

	_, err := device.Open(context.Background(), domain.QualityMedium.Profile())

	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
}
