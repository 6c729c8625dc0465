package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "voice-analysis-toolkit/internal/app/errors"
)

func newTestBackend(t *testing.T, status int, body string) *Backend {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-1.5-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	backend, err := New(context.Background(), Options{
		APIKey:  "AIzaTest-1234567890abcdef1234567890",
		Model:   "gemini-1.5-flash",
		BaseURL: server.URL,
	}, nil)
	require.NoError(t, err)
	return backend
}

func TestBackend_Generate(t *testing.T) {
	backend := newTestBackend(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":" **Sentiment:** Positive \n"}]}}]}`)

	out, err := backend.Generate(context.Background(), "Analyze")
	require.NoError(t, err)
	assert.Equal(t, "**Sentiment:** Positive", out)
	assert.Equal(t, "gemini", backend.Name())
}

func TestBackend_GenerateAPIError(t *testing.T) {
	backend := newTestBackend(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)

	_, err := backend.Generate(context.Background(), "Analyze")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAnalysis)
	assert.Equal(t, "A Gemini API error occurred: 403", apperrors.UserMessage(err))
}
