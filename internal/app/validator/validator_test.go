package validator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-analysis-toolkit/internal/app/errors"
	"voice-analysis-toolkit/internal/app/testutil"
)

type fakeProber struct {
	duration time.Duration
	err      error
	calls    int
}

func (f *fakeProber) Duration(ctx context.Context, filePath string) (time.Duration, error) {
	f.calls++
	return f.duration, f.err
}

func defaultLimits() Limits {
	return Limits{
		MaxFileSizeMB:     25,
		MaxFileLengthMins: 10,
		AllowedExtensions: []string{".mp3", ".wav", ".m4a", ".flac", ".ogg"},
	}
}

func writeFile(t *testing.T, name string, size int) string {
	return testutil.WriteFile(t, t.TempDir(), name, size)
}

func TestValidateAudioFile(t *testing.T) {
	tests := []struct {
		name          string
		path          func(t *testing.T) string
		limits        Limits
		prober        *fakeProber
		expectedErr   error
		expectedMsg   string
		expectProbe   bool
		checkDuration time.Duration
	}{
		{
			name:          "valid mp3",
			path:          func(t *testing.T) string { return writeFile(t, "talk.mp3", 1024) },
			limits:        defaultLimits(),
			prober:        &fakeProber{duration: 3 * time.Minute},
			expectProbe:   true,
			checkDuration: 3 * time.Minute,
		},
		{
			name:          "extension check is case-insensitive",
			path:          func(t *testing.T) string { return writeFile(t, "TALK.WAV", 1024) },
			limits:        defaultLimits(),
			prober:        &fakeProber{duration: time.Minute},
			expectProbe:   true,
			checkDuration: time.Minute,
		},
		{
			name:        "missing file",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.mp3") },
			limits:      defaultLimits(),
			prober:      &fakeProber{},
			expectedErr: apperrors.ErrValidation,
			expectedMsg: "File not found at path: ",
		},
		{
			name:        "unsupported extension",
			path:        func(t *testing.T) string { return writeFile(t, "notes.txt", 10) },
			limits:      defaultLimits(),
			prober:      &fakeProber{},
			expectedErr: apperrors.ErrInvalidFileType,
			expectedMsg: "Invalid file type. Allowed types are: .mp3, .wav, .m4a, .flac, .ogg",
		},
		{
			name: "file too large",
			path: func(t *testing.T) string { return writeFile(t, "big.mp3", 3*1024*1024+512*1024) },
			limits: Limits{
				MaxFileSizeMB: 3, MaxFileLengthMins: 10, AllowedExtensions: []string{".mp3"},
			},
			prober:      &fakeProber{},
			expectedErr: apperrors.ErrFileSizeExceeded,
			expectedMsg: "File size of 3.50MB exceeds the 3MB limit.",
		},
		{
			name:        "audio too long",
			path:        func(t *testing.T) string { return writeFile(t, "long.flac", 100) },
			limits:      defaultLimits(),
			prober:      &fakeProber{duration: 12*time.Minute + 30*time.Second},
			expectedErr: apperrors.ErrFileLengthExceeded,
			expectedMsg: "Audio duration of 12.50 minutes exceeds the 10 minute limit.",
			expectProbe: true,
		},
		{
			name:        "undecodable audio",
			path:        func(t *testing.T) string { return writeFile(t, "broken.ogg", 100) },
			limits:      defaultLimits(),
			prober:      &fakeProber{err: errors.New("Invalid data found when processing input")},
			expectedErr: apperrors.ErrValidation,
			expectedMsg: "Failed to read audio file. It may be corrupted or in an unsupported format despite the file extension.",
			expectProbe: true,
		},
		{
			name:          "exactly at the duration limit",
			path:          func(t *testing.T) string { return writeFile(t, "edge.m4a", 100) },
			limits:        defaultLimits(),
			prober:        &fakeProber{duration: 10 * time.Minute},
			expectProbe:   true,
			checkDuration: 10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.limits, tt.prober, nil)
			path := tt.path(t)

			info, err := v.ValidateAudioFile(context.Background(), path)

			assert.Equal(t, tt.expectProbe, tt.prober.calls > 0)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Contains(t, apperrors.UserMessage(err), tt.expectedMsg)
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, info.Path)
			assert.Equal(t, tt.checkDuration, info.Duration)
		})
	}
}

func TestValidateAudioFileRejectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "folder.mp3")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := New(defaultLimits(), &fakeProber{}, nil).ValidateAudioFile(context.Background(), dir)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
