package whisper_server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-analysis-toolkit/internal/app/api/provider"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
	return path
}

func TestWhisperServerProvider_TranscriptWithOptions(t *testing.T) {
	tests := []struct {
		name          string
		format        string
		status        int
		body          string
		wantText      string
		wantLanguage  string
		wantCode      string
		wantRetryable bool
	}{
		{
			name:         "json response",
			format:       "json",
			status:       http.StatusOK,
			body:         `{"text":" Hello world. ","language":"en","duration":3.5}`,
			wantText:     "Hello world.",
			wantLanguage: "en",
		},
		{
			name:         "segments only",
			format:       "json",
			status:       http.StatusOK,
			body:         `{"segments":[{"id":0,"text":" Hello"},{"id":1,"text":"again. "}]}`,
			wantText:     "Hello again.",
			wantLanguage: "de",
		},
		{
			name:         "text response",
			format:       "text",
			status:       http.StatusOK,
			body:         "plain transcript\n",
			wantText:     "plain transcript",
			wantLanguage: "de",
		},
		{
			name:          "server error is retryable",
			format:        "json",
			status:        http.StatusInternalServerError,
			body:          "model not loaded",
			wantCode:      "api_error",
			wantRetryable: true,
		},
		{
			name:     "client error is permanent",
			format:   "json",
			status:   http.StatusBadRequest,
			body:     "bad file",
			wantCode: "api_error",
		},
		{
			name:     "empty transcription",
			format:   "json",
			status:   http.StatusOK,
			body:     `{"text":"  "}`,
			wantCode: "empty_transcription",
		},
		{
			name:     "malformed json",
			format:   "json",
			status:   http.StatusOK,
			body:     `{"text":`,
			wantCode: "response_parse_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/inference", r.URL.Path)
				require.NoError(t, r.ParseMultipartForm(1<<20))
				assert.Equal(t, tt.format, r.FormValue("response_format"))
				assert.Equal(t, "de", r.FormValue("language"))

				file, header, err := r.FormFile("file")
				require.NoError(t, err)
				defer file.Close()
				assert.Equal(t, "meeting.wav", header.Filename)
				content, _ := io.ReadAll(file)
				assert.Equal(t, "RIFF....WAVE", string(content))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL + "/", Language: "de", ResponseFormat: tt.format})
			require.NoError(t, p.ValidateConfiguration())

			resp, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: writeAudio(t)})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, provider.ErrorCode(err))
				assert.Equal(t, tt.wantRetryable, provider.IsRetryable(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, tt.wantLanguage, resp.Language)
		})
	}
}

func TestWhisperServerProvider_InputErrors(t *testing.T) {
	p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{})
	assert.Equal(t, "invalid_input", provider.ErrorCode(err))

	_, err = p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: "/nonexistent.wav"})
	assert.Equal(t, "file_not_found", provider.ErrorCode(err))

	_, err = p.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: writeAudio(t)})
	assert.Equal(t, "request_failed", provider.ErrorCode(err))
	assert.True(t, provider.IsRetryable(err))
}

func TestWhisperServerProvider_Configuration(t *testing.T) {
	assert.Error(t, NewWhisperServerProvider(WhisperServerConfig{}).ValidateConfiguration())
	assert.Error(t, NewWhisperServerProvider(WhisperServerConfig{BaseURL: "whisper:8080"}).ValidateConfiguration())
	assert.Error(t, NewWhisperServerProvider(WhisperServerConfig{BaseURL: "http://w", ResponseFormat: "srt"}).ValidateConfiguration())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL})
	assert.NoError(t, p.HealthCheck(context.Background()))
	assert.Equal(t, provider.NameWhisperServer, p.GetProviderInfo().Name)
}
