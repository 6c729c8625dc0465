package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.TranscriptionSucceeded("whisper_cpp", 3*time.Second)
	c.TranscriptionSucceeded("whisper_cpp", time.Second)
	c.TranscriptionFailed("openai", "rate_limit_exceeded")
	c.AnalysisCompleted("summary", "ollama", "success", 2*time.Second)
	c.AnalysisCompleted("question", "ollama", "error", time.Second)
	c.ObserveHTTP("/api/v1/audio", http.MethodPost, 200, 5*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.transcriptions.WithLabelValues("whisper_cpp", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transcriptions.WithLabelValues("openai", "rate_limit_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.analyses.WithLabelValues("question", "ollama", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/v1/audio", "POST", "200")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `vat_transcriptions_total{provider="whisper_cpp",status="success"} 2`)
	assert.Contains(t, string(body), "vat_analysis_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
