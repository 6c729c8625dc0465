package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/app/repository/sqlite"
)

// SampleTranscript is a short meeting transcript used across analysis tests
const SampleTranscript = "Welcome everyone to the quarterly planning meeting. " +
	"Revenue grew twelve percent and the team agreed to ship the mobile app in May. " +
	"Maria will own the launch plan."

// WriteFile creates a file of size bytes under dir and returns its path
func WriteFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

// StaticProber reports the same duration for every file
type StaticProber struct {
	Length time.Duration
	Err    error
}

func (p StaticProber) Duration(context.Context, string) (time.Duration, error) {
	return p.Length, p.Err
}

// SampleTranscriptions returns history rows with one failed upload
func SampleTranscriptions() []model.TranscriptionRecord {
	return []model.TranscriptionRecord{
		{SessionID: "session-a", FileName: "planning.mp3", FileSize: 482_133, AudioDuration: 61.4, Provider: "whisper_cpp", Model: "ggml-base.en", Transcript: SampleTranscript},
		{SessionID: "session-b", FileName: "interview.m4a", FileSize: 1_204_551, AudioDuration: 312.0, Provider: "openai", Model: "whisper-1", Transcript: "Thanks for joining us today."},
		{SessionID: "session-b", FileName: "corrupted.wav", FileSize: 512, HasError: true, ErrorMessage: "An error occurred during transcription with whisper_cpp."},
	}
}

// NewTestHistory opens a sqlite history database in a temp dir, closed when
// the test ends
func NewTestHistory(t *testing.T) *sqlite.SQLiteDB {
	t.Helper()
	db, err := sqlite.NewSQLiteDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
