package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-analysis-toolkit/internal/app/api/provider"
)

func newTestClient(t *testing.T, status int, body string) *openai.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = server.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func audioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "call.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o644))
	return path
}

func TestRemoteTranscriber_TranscriptWithOptions(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantText      string
		wantCode      string
		wantRetryable bool
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"text":" Thanks for calling. "}`,
			wantText: "Thanks for calling.",
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`,
			wantCode: "authentication_failed",
		},
		{
			name:          "rate limited",
			status:        http.StatusTooManyRequests,
			body:          `{"error":{"message":"Rate limit","type":"requests"}}`,
			wantCode:      "rate_limit_exceeded",
			wantRetryable: true,
		},
		{
			name:     "too large",
			status:   http.StatusRequestEntityTooLarge,
			body:     `{"error":{"message":"too large","type":"invalid_request_error"}}`,
			wantCode: "file_too_large",
		},
		{
			name:     "bad file",
			status:   http.StatusBadRequest,
			body:     `{"error":{"message":"Invalid file format","type":"invalid_request_error"}}`,
			wantCode: "invalid_file",
		},
		{
			name:          "server error",
			status:        http.StatusBadGateway,
			body:          `{"error":{"message":"upstream","type":"server_error"}}`,
			wantCode:      "api_error",
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRemoteTranscriber(newTestClient(t, tt.status, tt.body), Config{})
			require.NoError(t, rt.ValidateConfiguration())

			resp, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: audioFile(t)})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, provider.ErrorCode(err))
				assert.Equal(t, tt.wantRetryable, provider.IsRetryable(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, openai.Whisper1, resp.ModelUsed)
		})
	}
}

func TestRemoteTranscriber_WithoutKey(t *testing.T) {
	rt := NewRemoteTranscriber(nil, Config{})
	assert.Error(t, rt.ValidateConfiguration())

	_, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: "a.mp3"})
	require.Error(t, err)
	assert.Equal(t, "OpenAI API key is not configured.", err.Error())
	assert.False(t, provider.IsRetryable(err))
}

func TestRemoteTranscriber_MissingFile(t *testing.T) {
	rt := NewRemoteTranscriber(openai.NewClient("sk-test"), Config{})
	_, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: "/nonexistent.mp3"})
	assert.Equal(t, "file_not_found", provider.ErrorCode(err))

	info := rt.GetProviderInfo()
	assert.True(t, info.RequiresAPIKey)
	assert.Equal(t, 25, info.MaxFileSizeMB)
}
