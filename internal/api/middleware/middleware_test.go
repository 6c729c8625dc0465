package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "voice-analysis-toolkit/internal/app/errors"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestID(t *testing.T) {
	router := newRouter()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, uuid.Validate(rec.Body.String()))
	assert.Equal(t, rec.Body.String(), rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestSession(t *testing.T) {
	router := newRouter()
	router.Use(Session(3600, false))
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetSessionID(c)) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first := rec.Body.String()
	require.NoError(t, uuid.Validate(first))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	testCases := []struct {
		name   string
		cookie string
		same   bool
	}{
		{name: "existing session is kept", cookie: first, same: true},
		{name: "tampered cookie is replaced", cookie: "../../etc/passwd", same: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.same, rec.Body.String() == tc.cookie)
			assert.NoError(t, uuid.Validate(rec.Body.String()))
		})
	}
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := newRouter()
	router.Use(RequestID(), ErrorHandler(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperrors.MsgUnexpected)
	assert.Contains(t, rec.Body.String(), `"request_id"`)
	assert.Equal(t, 1, logs.FilterMessage("Unknown panic occurred").Len())
}

func TestHandleError(t *testing.T) {
	router := newRouter()
	router.GET("/", func(c *gin.Context) {
		HandleError(c, apperrors.New(apperrors.MsgNoTranscript))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"kind":"conflict","message":"`+apperrors.MsgNoTranscript+`","code":"app"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	router := newRouter()
	router.Use(CORS(CORSConfig{AllowOrigins: []string{"http://ui.local"}, AllowMethods: []string{"GET"}, MaxAge: 600}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://ui.local")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://ui.local", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type recordedRequest struct {
	route  string
	status int
}

type fakeObserver struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeObserver) ObserveHTTP(route, _ string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{route: route, status: status})
}

func TestMetrics(t *testing.T) {
	obs := &fakeObserver{}
	router := newRouter()
	router.Use(Metrics(obs))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, []recordedRequest{
		{route: "/items/:id", status: http.StatusAccepted},
		{route: "unmatched", status: http.StatusNotFound},
	}, obs.requests)
}

func TestStructuredLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := newRouter()
	router.Use(RequestID(), StructuredLogging(zap.New(core)))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "/api", entries[0].ContextMap()["path"])
}
