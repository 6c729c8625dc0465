package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-analysis-toolkit/internal/app/errors"
)

func newTestBackend(t *testing.T, status int, body string) *Backend {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.GPT3Dot5Turbo, req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = server.URL + "/v1"
	return New(openai.NewClientWithConfig(cfg), "", nil)
}

func TestBackend_Generate(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		want        string
		wantMessage string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"choices":[{"index":0,"message":{"role":"assistant","content":"\n The call was positive. "}}]}`,
			want:   "The call was positive.",
		},
		{
			name:        "api error",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			wantMessage: "An OpenAI API error occurred: 401",
		},
		{
			name:        "unparseable error body",
			status:      http.StatusServiceUnavailable,
			body:        `upstream unavailable`,
			wantMessage: "An OpenAI API error occurred: 503",
		},
		{
			name:        "no choices",
			status:      http.StatusOK,
			body:        `{"choices":[]}`,
			wantMessage: "An unexpected error occurred while using the OpenAI API.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newTestBackend(t, tt.status, tt.body)

			out, err := backend.Generate(context.Background(), "Summarize")
			if tt.wantMessage != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrAnalysis)
				assert.Equal(t, tt.wantMessage, apperrors.UserMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestBackend_WithoutKey(t *testing.T) {
	backend := New(nil, "gpt-4o-mini", nil)
	assert.Equal(t, "gpt-4o-mini", backend.Model())

	_, err := backend.Generate(context.Background(), "Summarize")
	assert.Equal(t, "OpenAI API key is not configured.", apperrors.UserMessage(err))
	assert.Error(t, backend.HealthCheck(context.Background()))
}
