package audio

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name          string
		ffprobeOutput string
		expected      time.Duration
		expectedError bool
	}{
		{name: "integer seconds", ffprobeOutput: "30\n", expected: 30 * time.Second},
		{name: "decimal seconds", ffprobeOutput: "45.5\n", expected: 45500 * time.Millisecond},
		{name: "surrounding whitespace", ffprobeOutput: "  600.000000 \n", expected: 10 * time.Minute},
		{name: "not available", ffprobeOutput: "N/A\n", expectedError: true},
		{name: "empty output", ffprobeOutput: "", expectedError: true},
		{name: "garbage", ffprobeOutput: "not-a-number", expectedError: true},
		{name: "negative", ffprobeOutput: "-1", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDuration(tt.ffprobeOutput)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestIs16kHzWav(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected bool
		wantErr  bool
	}{
		{
			name:     "16kHz pcm",
			json:     `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000"}]}`,
			expected: true,
		},
		{
			name: "44.1kHz mp3",
			json: `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100"}]}`,
		},
		{
			name: "video stream only",
			json: `{"streams":[{"codec_type":"video","codec_name":"h264","sample_rate":"0"}]}`,
		},
		{
			name:    "malformed json",
			json:    `{"streams":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := is16kHzWav([]byte(tt.json))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestFFProbeDuration_Integration(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("FFmpeg not available, skipping integration tests")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("FFprobe not available, skipping integration tests")
	}

	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "tone.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "sine=frequency=440:duration=2", "-y", input)
	require.NoError(t, cmd.Run())

	d, err := NewFFProbe().Duration(ctx, input)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d.Seconds(), 0.2)

	wav, err := ConvertTo16kHzWav(ctx, input, dir)
	require.NoError(t, err)
	ok, err := Is16kHzWavFile(ctx, wav)
	require.NoError(t, err)
	assert.True(t, ok)
}
