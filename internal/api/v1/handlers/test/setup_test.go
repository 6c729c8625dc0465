package test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/api/middleware"
	"voice-analysis-toolkit/internal/api/v1/routes"
	"voice-analysis-toolkit/internal/api/v1/services"
	"voice-analysis-toolkit/internal/app/analysis"
	"voice-analysis-toolkit/internal/app/api/provider"
	"voice-analysis-toolkit/internal/app/controller"
	"voice-analysis-toolkit/internal/app/repository/sqlite"
	"voice-analysis-toolkit/internal/app/session"
	"voice-analysis-toolkit/internal/app/testutil"
	"voice-analysis-toolkit/internal/app/transcription"
	"voice-analysis-toolkit/internal/app/validator"
)

// testEnv is the v1 API wired to the real controller with mocked
// transcription and LLM seams
type testEnv struct {
	router    *gin.Engine
	provider  *testutil.MockProvider
	backend   *testutil.MockBackend
	history   *sqlite.SQLiteDB
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	mockProvider := testutil.NewMockProvider(provider.NameWhisperCpp)
	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider(provider.NameWhisperCpp, mockProvider))
	metrics := provider.NewProviderMetrics(nil)
	orchestrator := provider.NewTranscriptionOrchestrator(registry, metrics, provider.OrchestratorConfig{}, logger)

	backend := testutil.NewMockBackend()
	prompts, err := analysis.LoadPrompts("")
	require.NoError(t, err)

	history := testutil.NewTestHistory(t)
	store := session.NewMemoryStore(time.Hour, 0, logger)
	t.Cleanup(func() { store.Close() })

	ctrl := controller.New(controller.Dependencies{
		Store: store,
		Validator: validator.New(validator.Limits{
			MaxFileSizeMB:     1,
			MaxFileLengthMins: 10,
			AllowedExtensions: []string{".mp3", ".wav", ".m4a"},
		}, testutil.StaticProber{Length: 90 * time.Second}, logger),
		Transcriber: transcription.NewService(orchestrator, provider.NameWhisperCpp, "en", logger),
		Analyzer:    analysis.NewService(backend, prompts, nil, logger),
		BackendName: backend.Name(),
		History:     history,
		Logger:      logger,
	})

	uploadDir := t.TempDir()
	uploads, err := services.NewLocalUploadService(uploadDir, logger)
	require.NoError(t, err)

	router := gin.New()
	api := router.Group("/api/v1", middleware.RequestID(), middleware.Session(3600, false))
	routes.RegisterRoutes(api, &routes.ServiceContainer{
		SessionService:  ctrl,
		UploadService:   uploads,
		ProviderService: services.NewProviderService(registry, metrics, orchestrator, backend),
		HistoryService:  services.NewHistoryService(history),
	})

	return &testEnv{
		router:    router,
		provider:  mockProvider,
		backend:   backend,
		history:   history,
		uploadDir: uploadDir,
	}
}

// client keeps the session cookie between requests like a browser would
type client struct {
	env    *testEnv
	cookie *http.Cookie
}

func (e *testEnv) newClient() *client {
	return &client{env: e}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) upload(t *testing.T, fileName string, size int) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(make([]byte, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audio", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
